package doctext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(trimmed))
}

// sanitizer allows user-generated-content markup plus the class and
// microdata attributes documentation authors use to annotate examples.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("itemscope", "itemtype", "itemprop").Globally()
		p.RequireNoFollowOnLinks(false)
		policy = p
	})
	return policy
}
