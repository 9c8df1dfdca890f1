package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const metadataResourceURI = "prompt://metadata"

func (g *Gateway) registerMetadataResource() {
	g.server.AddResource(&mcp.Resource{
		URI:         metadataResourceURI,
		Name:        "prompt-metadata",
		Description: "Metadata for every available prompt: file names, tool names, sizes and cache state.",
		MIMEType:    "application/json",
	}, g.handleMetadataResource)
}

func (g *Gateway) handleMetadataResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := g.library.ListPrompts(ctx)
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	uri := metadataResourceURI
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(raw),
			},
		},
	}, nil
}
