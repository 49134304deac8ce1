package chat

import (
	"github.com/cloudwego/eino/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolInfoFromMCP converts one declared server tool into a model-callable
// function description.
func toolInfoFromMCP(t mcp.Tool) *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        t.Name,
		Desc:        t.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(paramInfos(t.InputSchema.Properties, t.InputSchema.Required)),
	}
}

func paramInfos(properties map[string]any, required []string) map[string]*schema.ParameterInfo {
	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}

	params := make(map[string]*schema.ParameterInfo, len(properties))
	for name, raw := range properties {
		info := paramInfo(raw)
		_, info.Required = requiredSet[name]
		params[name] = info
	}
	return params
}

func paramInfo(raw any) *schema.ParameterInfo {
	prop, ok := raw.(map[string]any)
	if !ok {
		return &schema.ParameterInfo{Type: schema.String}
	}

	typeName, _ := prop["type"].(string)
	desc, _ := prop["description"].(string)

	info := &schema.ParameterInfo{
		Type: dataTypeOf(typeName),
		Desc: desc,
	}

	switch info.Type {
	case schema.Object:
		if nested, ok := prop["properties"].(map[string]any); ok {
			info.SubParams = paramInfos(nested, stringSlice(prop["required"]))
		}
	case schema.Array:
		if items, ok := prop["items"]; ok {
			info.ElemInfo = paramInfo(items)
		}
	}

	return info
}

func dataTypeOf(name string) schema.DataType {
	switch name {
	case "number":
		return schema.Number
	case "integer":
		return schema.Integer
	case "boolean":
		return schema.Boolean
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	case "null":
		return schema.Null
	default:
		return schema.String
	}
}

func stringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
