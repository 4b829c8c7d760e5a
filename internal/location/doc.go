// Package location wraps position acquisition and reverse geocoding into a
// single capability.
//
// A Source performs one-shot position reads and reports permission or
// availability failures through sentinel errors. A Geocoder turns
// coordinates into the address components used to prefill pickup
// locations. Service combines the two: coordinates are authoritative and
// the address is advisory, so a geocoder failure never loses a position
// that was already read.
//
// The default Source is FixedSource, which serves coordinates from the
// Ladle config file. The default Geocoder is HTTPGeocoder, a client for a
// Nominatim-compatible endpoint.
package location
