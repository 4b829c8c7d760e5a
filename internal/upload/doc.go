// Package upload moves locally selected images to the FoodShare upload
// endpoint ahead of a listing submission.
//
// Uploads run sequentially in input order and each asset succeeds or fails
// on its own: the pipeline returns one Result per asset and a failure
// never cancels or skips the assets after it. Callers build a listing's
// image list from Succeeded, which drops failed uploads entirely.
package upload
