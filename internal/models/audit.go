package models

import "time"

// AuditEntry records one successful admin mutation.
type AuditEntry struct {
	ID       string    `json:"id" dynamodbav:"id"`
	Resource string    `json:"resource" dynamodbav:"resource"`
	Action   string    `json:"action" dynamodbav:"action"`
	TargetID string    `json:"target_id,omitempty" dynamodbav:"target_id,omitempty"`
	Actor    string    `json:"actor,omitempty" dynamodbav:"actor,omitempty"`
	At       time.Time `json:"at" dynamodbav:"at"`
}

func (e *AuditEntry) GetPK() string {
	return "AUDIT"
}

// HistoryPK is the partition holding every entry about one record. Entries
// without a target have none.
func (e *AuditEntry) HistoryPK() string {
	if e.TargetID == "" {
		return ""
	}
	return HistoryPK(e.Resource, e.TargetID)
}

func HistoryPK(resource, targetID string) string {
	return "AUDIT#" + resource + "#" + targetID
}

func (e *AuditEntry) GetSK() string {
	return e.At.UTC().Format(time.RFC3339Nano) + "#" + e.ID
}
