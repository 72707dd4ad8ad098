// Package store loads and saves flat JSON record files.
//
// A record file is a JSON array of objects, one per record, in creation order:
//
//	[
//	    {
//	        "id": "6f1c0a4e-5b7d-4f0e-9a57-3f1b8e2d9c10",
//	        "title": "Buy milk",
//	        "completed": false,
//	        "created_at": "2025-03-05 09:12:44.123456",
//	        "deadline": "2025-03-07"
//	    }
//	]
//
// # Loading
//
// A missing file is not an error: Load returns an empty slice. Any other read
// error is returned as-is (wrapped). A file that exists but does not decode, or
// that violates the attached JSON Schema, yields a *ParseError.
//
// # Saving
//
// Save rewrites the whole file on every call:
//   - 4-space indentation
//   - Trailing newline
//   - Field order follows the record struct
//
// There is no journaling or atomic rename; a crash mid-write can leave a
// truncated file behind.
//
// # Backends
//
// File is the on-disk backend. Memory keeps an encoded snapshot in process
// memory and is used where records should not outlive the process.
package store
