// Package http implements the HTTP and WebSocket handlers of the delivery
// dashboard. Handlers stay thin: they parse and validate the request, call the
// dashboard service and render the result or an RFC 7807 problem.
//
// # Routes
//
//	GET  /api/dataset/summary        load report and filter bounds
//	GET  /api/filters                date range and traffic categories
//	GET  /api/views/{view}           company, agents or restaurants view
//	GET  /api/export/{view}.csv      one aggregate table as CSV
//	GET  /api/export/dashboard.xlsx  every aggregate, one sheet each
//	POST /api/logs                   client-side log forwarding
//	GET  /ws                         interaction channel
//
// Every view and export route accepts the same filter query:
//
//	max_date=DD-MM-YYYY    exclusive upper bound on the order date
//	traffic=Low&traffic=Jam or traffic=Low,Jam
//
// # Error Handling
//
// Service errors are passed to errors.ErrorHandler unchanged. A missing
// dataset renders as 503, an unknown view as 404 and a query that fails
// validation as 400:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "error_code": "VALIDATION_FAILED",
//	    "instance": "/api/views/company"
//	}
//
// # Interaction Channel
//
// InteractionHandler upgrades /ws with Gorilla WebSocket and registers the
// connection with the hub. Each text frame is decoded as a view request and
// answered with exactly one view:result or error frame. Heartbeat frames are
// consumed without a reply.
package http
