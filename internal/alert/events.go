package alert

// Event topics published by the alert module.
const (
	TopicAlertCreated      = "alert.created"
	TopicAlertAcknowledged = "alert.acknowledged"
)
