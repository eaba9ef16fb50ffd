package messagequeue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks whether data is a well-formed MutationEvent for subject.
// Subjects outside the turnolink. namespace pass validation.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}
	if !strings.HasPrefix(subject, SubjectPrefix) {
		return nil
	}

	var ev MutationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	if ev.ID == "" || ev.TenantID == "" {
		return fmt.Errorf("schema validation failed for %s: id and tenant_id are required", subject)
	}
	if want := Subject(ev.Entity, ev.Op); want != subject {
		return fmt.Errorf("schema validation failed for %s: payload describes %s", subject, want)
	}
	return nil
}
