// Package todo defines the task model shared by the sync client, the
// controller and the renderers.
//
// Tasks arrive from the backend as JSON objects:
//
//	{
//	  "id": 1,
//	  "title": "Buy milk",
//	  "description": "",
//	  "priority": "high",
//	  "status": "pending",
//	  "due_date": "2024-05-01",
//	  "created_at": "2024-04-30 10:00:00",
//	  "updated_at": "2024-04-30 10:00:00",
//	  "completed_at": null
//	}
//
// Only id, title, description, priority, status and due_date are modelled.
// Every other key is kept as raw JSON and written back unchanged, so a
// task can be resent to the backend with a single field changed.
//
// # Status Values
//
//   - "pending": task is open
//   - "completed": task is done
//
// # Priority Values
//
//   - "low", "medium" (default), "high"
//
// # Filters
//
// A Filter selects what the renderer shows. It is never sent to the
// server and never changes the Store.
//
//   - "all": every task, in server order
//   - "pending", "completed": by status
//   - "high": high priority only
package todo
