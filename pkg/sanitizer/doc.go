// Package sanitizer normalizes customer-entered booking data before it is
// validated and stored.
//
// All functions are idempotent. Invalid input never produces an error: it
// normalizes to an empty string and is left for validation to reject.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number]), local numbers read in a default region
//   - Names: collapse whitespace, trim leading/trailing spaces
//   - Locations and notes: collapse whitespace, drop control characters
package sanitizer
