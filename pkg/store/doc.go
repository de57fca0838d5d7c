// Package store provides the public types and interfaces for the
// application-store submission API client.
//
// The package defines the client configuration (Config), the typed error
// taxonomy (AuthError, ConfigError, APIError, TransportError), the wire
// schema for products, submissions, listings, packages, flights and rollout
// policies, and the Client interface implemented by internal/client.
//
// Construct a client with sbclient.New:
//
//	client, err := sbclient.New(ctx, &store.Config{
//		TenantID:     "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
//		ClientID:     "my-client-id",
//		ClientSecret: "my-client-secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sub, err := client.Submissions().Create(ctx, "9NBLGGH4R315")
//
// All blocking operations take a context.Context and honor cancellation,
// including the long-running submission monitor:
//
//	snapshot, err := client.Submissions().Monitor(ctx, productID, sub.ID, nil)
package store
