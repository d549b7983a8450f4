package gemini

import "google.golang.org/genai"

func UserText(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleUser)
}

func ModelText(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleModel)
}

func ModelTurn(result *Result) *genai.Content {
	return genai.NewContentFromParts(result.Parts, genai.RoleModel)
}

// ToolResult wraps a tool output so it can be appended to the history as
// the answer to a function call.
func ToolResult(name string, output string) *genai.Content {
	return genai.NewContentFromParts([]*genai.Part{
		{
			FunctionResponse: &genai.FunctionResponse{
				Name: name,
				Response: map[string]any{
					"output": output,
				},
			},
		},
	}, genai.RoleUser)
}
