package normalizer

import (
	"fmt"
	"strings"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/registry"
)

// validateCredential checks the user-supplied key against the family's
// declared format. It fails fast with the specific rule violated so the
// caller can fix the key without a round-trip to the remote service.
func validateCredential(spec *registry.CredentialSpec, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return &gen.ValidationError{Field: "external_credential", Rule: "required for this model"}
	}

	if spec.Prefix != "" && !strings.HasPrefix(credential, spec.Prefix) {
		return &gen.ValidationError{
			Field: "external_credential",
			Rule:  fmt.Sprintf("must start with %q", spec.Prefix),
		}
	}

	if spec.MinLen > 0 && len(credential) < spec.MinLen {
		return &gen.ValidationError{
			Field: "external_credential",
			Rule:  fmt.Sprintf("must be at least %d characters", spec.MinLen),
		}
	}

	return nil
}
