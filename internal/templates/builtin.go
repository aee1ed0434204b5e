package templates

// builtinTemplates ships a usable default per channel so every deployment can
// dispatch before any operator has authored a row. Persisted rows with the
// same (id, channel) take precedence.
var builtinTemplates = map[string]Template{
	builtinKey("appointment_reminder", ChannelEmail): {
		ID:        "appointment_reminder",
		Channel:   ChannelEmail,
		Subject:   "Appointment Reminder - {{practice_name}}",
		Content:   "Hi {{patient_name}},\n\nThis is a reminder of your appointment with {{provider_name}} on {{appointment_date}} at {{appointment_time}}.\n\nIf you need to reschedule, please call us.\n\n{{practice_name}}",
		Variables: []string{"patient_name", "practice_name", "provider_name", "appointment_date", "appointment_time"},
	},
	builtinKey("appointment_reminder", ChannelSMS): {
		ID:        "appointment_reminder",
		Channel:   ChannelSMS,
		Content:   "Hi {{patient_name}}, reminder: your appointment at {{practice_name}} is {{appointment_date}} at {{appointment_time}}. Reply C to confirm.",
		Variables: []string{"patient_name", "practice_name", "appointment_date", "appointment_time"},
	},
	builtinKey("appointment_reminder", ChannelVoice): {
		ID:        "appointment_reminder",
		Channel:   ChannelVoice,
		Content:   "Hello {{patient_name}}. This is {{practice_name}} calling to remind you of your appointment on {{appointment_date}} at {{appointment_time}}. Please call us if you need to reschedule. Thank you.",
		Variables: []string{"patient_name", "practice_name", "appointment_date", "appointment_time"},
	},
	builtinKey("welcome", ChannelEmail): {
		ID:        "welcome",
		Channel:   ChannelEmail,
		Subject:   "Welcome to {{practice_name}}",
		Content:   "Hi {{patient_name}},\n\nWelcome to {{practice_name}}! Your patient portal is ready. If you have any questions, just reply to this email.\n\n{{practice_name}}",
		Variables: []string{"patient_name", "practice_name"},
	},
	builtinKey("welcome", ChannelSMS): {
		ID:        "welcome",
		Channel:   ChannelSMS,
		Content:   "Welcome to {{practice_name}}, {{patient_name}}! We'll send appointment updates to this number. Reply STOP to opt out.",
		Variables: []string{"patient_name", "practice_name"},
	},
	builtinKey("follow_up", ChannelEmail): {
		ID:        "follow_up",
		Channel:   ChannelEmail,
		Subject:   "Following up on your visit - {{practice_name}}",
		Content:   "Hi {{patient_name}},\n\nThank you for visiting {{practice_name}} on {{visit_date}}. We'd love to hear how you're doing. If you have any concerns, please reach out.\n\n{{practice_name}}",
		Variables: []string{"patient_name", "practice_name", "visit_date"},
	},
	builtinKey("follow_up", ChannelVoice): {
		ID:        "follow_up",
		Channel:   ChannelVoice,
		Content:   "Hello {{patient_name}}. This is {{practice_name}} following up after your recent visit. If you have any questions about your care, please give us a call back. Thank you.",
		Variables: []string{"patient_name", "practice_name"},
	},
}

func builtinKey(id, channel string) string {
	return id + "/" + channel
}

// BuiltinTemplate returns a compiled-in fallback template when one exists.
func BuiltinTemplate(id, channel string) (Template, bool) {
	t, ok := builtinTemplates[builtinKey(id, channel)]
	return t, ok
}
