// Package todo manages the to-do list.
//
// Tasks are kept in creation order and persisted after every mutation through
// a store.Backend. The task file (tasks.json) is a JSON array:
//
//	[
//	    {
//	        "id": "0b9c2f8e-4d4f-4c53-8f0e-8a3c7d6f5e21",
//	        "title": "Renew passport",
//	        "completed": false,
//	        "created_at": "2025-03-05 09:12:44.123456",
//	        "deadline": "2025-04-01"
//	    }
//	]
//
// # Addressing
//
// Tasks are addressed by 1-based position (as shown in listings) or by their
// stable id. Positions shift only if tasks are removed, which this package
// never does.
//
// # Legacy files
//
// Files written before ids existed are accepted; missing ids are assigned on
// load and written back on the next save or on Close.
package todo
