package constants

// Session and context keys
const (
	SessionCookieName = "plant_task_session"
	ContextKeyUserID  = "user_id"
)

// Audit trail actions. These are the exact strings written to task_history;
// clients display them verbatim.
const (
	HistoryActionCreated      = "Tâche créée"
	HistoryActionUpdated      = "Détails de la tâche mis à jour"
	HistoryActionCommentAdded = "A ajouté un commentaire"
)

// MaxRequestBodyBytes caps request bodies. Before/after photos travel as
// data URLs inside JSON fields, so the cap has to admit an encoded image.
const MaxRequestBodyBytes = 10 << 20 // 10MB

// Rate limiting defaults, applied per client IP.
const (
	RateLimitPerSecond = 20
	RateLimitBurst     = 40
)
