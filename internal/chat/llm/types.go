package llm

import "context"

// Client is the narrow contract every provider wire client satisfies: send
// text plus optional inline attachments, receive text plus optional
// structured tool invocations.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Turn is one prior conversation turn. Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

// InlineImage is an image attachment inlined as base64 with its mime type.
type InlineImage struct {
	MimeType string
	Data     string
}

// ToolDecl declares one invokable structured operation. Parameters is a
// JSON-schema object.
type ToolDecl struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Request is the provider-independent model request.
type Request struct {
	History           []Turn
	Text              string
	Images            []InlineImage
	SystemInstruction string
	Tools             []ToolDecl
}

// Response carries the model's free text and any structured invocations, in
// response order.
type Response struct {
	Text        string
	Invocations []Invocation
}

// Invocation is the tagged union over the known structured operations. An
// operation the model names that we do not recognize decodes to
// UnknownInvocation rather than being silently dropped.
type Invocation interface {
	isInvocation()
}

// WebsiteInvocation is the "produce website source" operation.
type WebsiteInvocation struct {
	Description string
	HTMLCode    string
}

// MobileAppInvocation is the "produce mobile app source" operation.
// Platform is "React Native" or "Flutter".
type MobileAppInvocation struct {
	Platform        string
	Description     string
	Code            string
	AppName         string
	IconDescription string
}

// UnknownInvocation preserves the name of an unrecognized operation so the
// caller can log it.
type UnknownInvocation struct {
	Name string
}

func (WebsiteInvocation) isInvocation()   {}
func (MobileAppInvocation) isInvocation() {}
func (UnknownInvocation) isInvocation()   {}

// Operation names shared by every provider mapping.
const (
	OpBuildWebsite   = "build_website"
	OpBuildMobileApp = "build_mobile_app"
)

// BuildToolDecls returns the two operations declared on every request.
func BuildToolDecls() []ToolDecl {
	return []ToolDecl{
		{
			Name:        OpBuildWebsite,
			Description: "Generates a production-ready website with advanced HTML and CSS.",
			Parameters: map[string]interface{}{
				"type":        "object",
				"description": "The content and structural parameters for the website.",
				"properties": map[string]interface{}{
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Brief description of the website content.",
					},
					"html_code": map[string]interface{}{
						"type":        "string",
						"description": "The complete self-contained HTML/CSS source code.",
					},
				},
				"required": []string{"description", "html_code"},
			},
		},
		{
			Name:        OpBuildMobileApp,
			Description: "Generates a cross-platform mobile app source code using React Native or Flutter.",
			Parameters: map[string]interface{}{
				"type":        "object",
				"description": "The architecture and logic parameters for the mobile application.",
				"properties": map[string]interface{}{
					"platform": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"React Native", "Flutter"},
						"description": "The target mobile framework.",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Functional overview of the app features.",
					},
					"code": map[string]interface{}{
						"type":        "string",
						"description": "The main entry point source code for the app.",
					},
					"app_name": map[string]interface{}{
						"type":        "string",
						"description": "Display name for the generated app.",
					},
					"icon_description": map[string]interface{}{
						"type":        "string",
						"description": "Optional description of the app icon.",
					},
				},
				"required": []string{"platform", "description", "code"},
			},
		},
	}
}

// decodeInvocation maps a provider tool call onto the tagged union.
func decodeInvocation(name string, args map[string]interface{}) Invocation {
	switch name {
	case OpBuildWebsite:
		return WebsiteInvocation{
			Description: stringArg(args, "description"),
			HTMLCode:    stringArg(args, "html_code"),
		}
	case OpBuildMobileApp:
		return MobileAppInvocation{
			Platform:        stringArg(args, "platform"),
			Description:     stringArg(args, "description"),
			Code:            stringArg(args, "code"),
			AppName:         stringArg(args, "app_name"),
			IconDescription: stringArg(args, "icon_description"),
		}
	default:
		return UnknownInvocation{Name: name}
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
