// Package http implements the HTTP handlers of the score calculator.
// Handlers stay thin: they read the upload, bind and validate form fields,
// call the score service and render the result.
//
// # Endpoints
//
//	POST /api/scores/analyze   upload plus column choice, returns an analysis
//	POST /api/scores/columns   headers, suggestions, relays and start numbers
//	POST /api/scores/summary   basic or SIUS per start number summary
//	POST /api/scores/shots     shot listing of one start number
//	POST /api/scores/target    shot coordinates of one start number
//	POST /api/scores/export    summary as a delimited file attachment
//	POST /api/log              front end log entries
//	GET  /api/health[/ready|/live], /api/version, /metrics
//
// Score endpoints take multipart/form-data with the file in the "file" part.
// UploadCtx reads it once and the handler binds the remaining fields into
// the request types of pkg/contracts/api/v1 by their form tags.
//
// # Responses
//
// Success bodies use the envelope {"status":"success","data":...}. Errors
// are RFC 7807 problem documents written by the shared error handler:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/scores/shots"
//	}
package http
