package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The component's render function panicked or returned an invalid tree. The last successful tree stays on screen.",
	},
	"E101": {
		Category: CategoryRender,
		Message:  "Render target rejected tree",
		Detail:   "The render target could not apply the tree produced by the component.",
	},

	// ============================================
	// Lookup Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryLookup,
		Message:  "Lookup failed",
		Detail:   "The quote provider returned an error. No retry is attempted.",
	},
	"E201": {
		Category: CategoryLookup,
		Message:  "NotFound",
		Detail:   "The provider has no quote for the requested symbol.",
	},
	"E202": {
		Category: CategoryLookup,
		Message:  "Lookup timed out",
		Detail:   "The lookup did not finish within the configured async timeout.",
	},

	// ============================================
	// Subscription Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategorySubscription,
		Message:  "Subscriber failed",
		Detail:   "A channel subscriber panicked or returned an error. Remaining subscribers were still invoked.",
	},

	// ============================================
	// Config Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E401": {
		Category: CategoryConfig,
		Message:  "Duplicate component tag",
		Detail:   "Each component must be registered under a unique tag.",
	},
	"E402": {
		Category: CategoryConfig,
		Message:  "Unknown component tag",
	},
	"E403": {
		Category: CategoryConfig,
		Message:  "Invalid prop",
		Detail:   "The prop does not exist or the value has the wrong type.",
	},
	"E404": {
		Category: CategoryConfig,
		Message:  "Channel type mismatch",
		Detail:   "A channel with this name already exists with a different payload type.",
	},

	// ============================================
	// Lifecycle Errors (E500-E599)
	// ============================================

	"E500": {
		Category: CategoryLifecycle,
		Message:  "Invalid state transition",
	},
	"E501": {
		Category: CategoryLifecycle,
		Message:  "Host closed",
		Detail:   "The host loop has stopped and no longer accepts work.",
	},
	"E502": {
		Category: CategoryLifecycle,
		Message:  "Handler panicked",
		Detail:   "An event handler or lifecycle hook panicked. The turn was abandoned; other components are unaffected.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
