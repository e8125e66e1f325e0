// Package kernel provides core domain primitives shared by the order, feed,
// history and timeline models.
//
// The package includes:
//   - Timestamp: a wall-clock instant that may be missing, with the display
//     rendering used across the service ("DD/MM/YYYY HH:MM:SS", or "—")
//   - decoders for the two timestamp encodings the service receives: the
//     provider's "YYYY-MM-DD HH:MM:SS" strings and the local store's
//     YYYYMMDD date integer plus seconds-of-day integer
//
// Timestamps carry no time zone conversion. Both sources record local wall
// clock time in the same zone, so comparing them as UTC wall clocks keeps the
// ordering correct and the rendering untouched.
package kernel
