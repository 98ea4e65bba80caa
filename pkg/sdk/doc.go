// Package sdk is the Go client for the signpost HTTP API.
//
// Basic usage:
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	resp, err := client.Search(ctx, sdk.SearchRequest{
//		Query: "Faded STOP sign on highway",
//	})
package sdk
