// Package submit coordinates publishing a listing as one logical
// transaction: validate the draft, upload its images, create the listing,
// then invalidate the cached views the new listing changes.
//
// The transaction is deliberately not atomic at the image level. A failed
// photo upload is recorded and reported as a warning while the submission
// carries on with the photos that succeeded; only validation failures and
// a rejected create abort the flow, and both leave no listing behind.
// A coordinator runs one submission at a time; a second Submit while one
// is in flight returns ErrSubmitting.
package submit
