// Package adminclient provides the primary entry point for constructing an
// API client that implements the admin.Client interface.
//
// It layers endpoint normalization, the HTTP transport and the interceptor
// chain on top of the resource interfaces and types defined in the admin
// package. Most applications build a client here, then use the returned
// admin.Client to reach Users() and Posts().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/crudadmin/pkg/admin"
//	  "github.com/fivetwenty-io/crudadmin/pkg/adminclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := adminclient.NewWithEndpoint(ctx, "https://jsonplaceholder.typicode.com")
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := cli.Users().List(ctx)
//	  if err != nil {
//	    if apiErr, ok := admin.AsAPIError(err); ok {
//	      log.Printf("status %d: %s", apiErr.Status, apiErr.Message)
//	    }
//	  }
//	  _ = users
//	}
//
// # Loading indicator
//
// Every call made through the client increments the counter returned by
// Client.Loading before it is sent and decrements it once it settles. Pass
// a shared counter in admin.Config.Loading to drive one indicator from
// several clients.
package adminclient
