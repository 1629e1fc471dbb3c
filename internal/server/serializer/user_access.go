package serializer

import "authd/internal/model"

// UserAccess serializes the render of a session access record.
func UserAccess(m *model.UserAccess) map[string]interface{} {
	return map[string]interface{}{
		"id":          m.ID,
		"userId":      m.UserID,
		"sessionId":   m.SessionID,
		"type":        m.Type,
		"statusToken": m.StatusToken,
		"statusLogin": m.StatusLogin,
		"userAgent":   m.UserAgent,
		"createdAt":   m.CreatedAt,
	}
}

// UserAccesses serializes the render of session access records.
func UserAccesses(m []*model.UserAccess) []map[string]interface{} {
	accesses := make([]map[string]interface{}, len(m))
	for i, access := range m {
		accesses[i] = UserAccess(access)
	}
	return accesses
}
