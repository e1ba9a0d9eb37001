// Package admin provides types, interfaces, and helpers for working with the
// Users and Posts REST API behind the admin console.
//
// # Overview
//
// The admin package defines the domain types (User, Post and their create
// and update payloads) and the interfaces for resource-oriented clients
// (UsersClient, PostsClient). A concrete implementation is provided by the
// adminclient package, which wires configuration, transport and the loading
// counter.
//
// Getting a client
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
//	  cli, err := adminclient.New(ctx, &admin.Config{APIEndpoint: "https://api.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := cli.Users().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Errors
//
// Every failed call returns an *APIError carrying the HTTP status, a message
// and the original cause. Use AsAPIError or IsNotFound to inspect it:
//
//	if admin.IsNotFound(err) { ... }
//
// # Loading indicator
//
// PendingCounter counts in-flight requests. The client increments it before
// each request and decrements it when the request settles. Subscribe to be
// told about every change:
//
//	stop := cli.Loading().Subscribe(func(pending int) { spinner.Set(pending > 0) })
//	defer stop()
package admin
