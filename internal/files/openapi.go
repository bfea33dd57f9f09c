package files

import "github.com/JaimeStill/esgdash/pkg/openapi"

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"File": {
			Type:     "object",
			Required: []string{"id", "originalName", "uploadedAt", "isUsed"},
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "integer", Format: "int64"},
				"originalName": {Type: "string", Example: "2024_ESG_자가진단보고서.pdf"},
				"contentType":  {Type: "string", Example: "application/pdf"},
				"sizeBytes":    {Type: "integer", Format: "int64"},
				"pageCount":    {Type: "integer", Description: "Null when the page count could not be read"},
				"storageKey":   {Type: "string"},
				"isUsed":       {Type: "boolean", Description: "Selected for downstream visualization"},
				"uploadedAt":   {Type: "string", Format: "date-time"},
				"updatedAt":    {Type: "string", Format: "date-time"},
			},
		},
	}
}

// Paths describes the file routes relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	tags := []string{"files"}
	id := openapi.PathParam("id", "File ID")

	return map[string]*openapi.PathItem{
		"/files": {
			Get: &openapi.Operation{
				Summary:   "List files",
				Tags:      tags,
				Responses: map[int]*openapi.Response{200: openapi.ResponseArrayJSON("All files, newest first", "File")},
			},
		},
		"/files/used": {
			Get: &openapi.Operation{
				Summary:   "List used files",
				Tags:      tags,
				Responses: map[int]*openapi.Response{200: openapi.ResponseArrayJSON("Files marked as used", "File")},
			},
		},
		"/files/upload": {
			Post: &openapi.Operation{
				Summary:     "Upload an ESG report",
				Description: "The file must be a PDF whose first pages contain an ESG report marker.",
				Tags:        tags,
				RequestBody: openapi.RequestBodyFile("file", "PDF report"),
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Stored file", "File"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					422: openapi.ResponseRef("UnprocessableEntity"),
					429: openapi.ResponseRef("TooManyRequests"),
				},
			},
		},
		"/files/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a file",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("File", "File"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
			Delete: &openapi.Operation{
				Summary:    "Delete a file",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
		"/files/{id}/download": {
			Get: &openapi.Operation{
				Summary:    "Download the stored PDF",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "PDF bytes",
						Content: map[string]*openapi.MediaType{
							"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
						},
					},
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
		"/files/{id}/toggle-used": {
			Patch: &openapi.Operation{
				Summary:    "Toggle the used flag",
				Tags:       tags,
				Parameters: []*openapi.Parameter{id},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated file", "File"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}
