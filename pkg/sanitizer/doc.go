// Package sanitizer normalizes agent and property input before validation
// and storage.
//
// All functions are idempotent and never fail. Input that cannot be
// normalized is returned as an empty string or left for the validator to
// reject.
//
// Normalization includes:
//   - Phone numbers: E.164, parsed with GB as the default region
//   - Free text (names, addresses, notes): trimmed, whitespace collapsed
//   - Postcodes: upper case with a single space before the inward code
//   - Discount codes: upper case letters and digits only
//   - Emails: trimmed and lower cased
package sanitizer
