package domain

// NotificationTrigger identifies the event a notification template belongs
// to. Values are the template keys persisted in system settings.
type NotificationTrigger string

const (
	TriggerNewInvoice             NotificationTrigger = "New Invoice Submitted"
	TriggerExpenseApproved        NotificationTrigger = "Expense Approved"
	TriggerExpenseRejected        NotificationTrigger = "Expense Rejected"
	TriggerBudgetThreshold        NotificationTrigger = "Budget Threshold Warning"
	TriggerResponsibilityAssigned NotificationTrigger = "Responsibility Assigned/Modified"
)

// LocalizedTemplate is a subject/body pair with {variable} placeholders.
type LocalizedTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailTemplate holds the per-language variants of one trigger's template.
type EmailTemplate struct {
	En LocalizedTemplate `json:"en"`
	Ar LocalizedTemplate `json:"ar"`
}

// SMTPSettings is the delivery configuration stored in system settings.
// Pass is held encrypted at rest and decrypted on read.
type SMTPSettings struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
}

// NotificationSettings bundles SMTP transport config with the template set.
type NotificationSettings struct {
	SMTP      SMTPSettings                          `json:"smtp"`
	Templates map[NotificationTrigger]EmailTemplate `json:"templates"`
}

// DefaultTemplates returns the seed template set used when no templates
// have been stored yet.
func DefaultTemplates() map[NotificationTrigger]EmailTemplate {
	return map[NotificationTrigger]EmailTemplate{
		TriggerNewInvoice: {
			En: LocalizedTemplate{
				Subject: "New Expense Submitted: {vendor}",
				Body:    "A new expense from {vendor} for ${total} has been submitted by {userName} and is awaiting your approval.",
			},
			Ar: LocalizedTemplate{
				Subject: "تم تقديم مصروف جديد: {vendor}",
				Body:    "تم تقديم مصروف جديد من {vendor} بمبلغ ${total} بواسطة {userName} وهو بانتظار موافقتك.",
			},
		},
		TriggerExpenseApproved: {
			En: LocalizedTemplate{
				Subject: "Expense Approved: {vendor}",
				Body:    "Your expense from {vendor} for ${total} has been approved.",
			},
			Ar: LocalizedTemplate{
				Subject: "تمت الموافقة على المصروف: {vendor}",
				Body:    "تمت الموافقة على مصروفك من {vendor} بمبلغ ${total}.",
			},
		},
		TriggerExpenseRejected: {
			En: LocalizedTemplate{
				Subject: "Expense Rejected: {vendor}",
				Body:    "Your expense from {vendor} for ${total} has been rejected. Please review and contact your manager.",
			},
			Ar: LocalizedTemplate{
				Subject: "تم رفض المصروف: {vendor}",
				Body:    "تم رفض مصروفك من {vendor} بمبلغ ${total}. يرجى المراجعة والتواصل مع مديرك.",
			},
		},
		TriggerBudgetThreshold: {
			En: LocalizedTemplate{
				Subject: "Budget Warning: {responsibilityName}",
				Body:    "The budget for \"{responsibilityName}\" has reached {usagePercentage}% of its limit.",
			},
			Ar: LocalizedTemplate{
				Subject: "تحذير الميزانية: {responsibilityName}",
				Body:    "وصلت ميزانية \"{responsibilityName}\" إلى {usagePercentage}% من حدها.",
			},
		},
		TriggerResponsibilityAssigned: {
			En: LocalizedTemplate{
				Subject: "New Financial Responsibility Assigned",
				Body:    "You have been assigned a new financial responsibility: \"{responsibilityName}\" with a budget of ${budget}.",
			},
			Ar: LocalizedTemplate{
				Subject: "تم تعيين مسؤولية مالية جديدة",
				Body:    "تم تعيين مسؤولية مالية جديدة لك: \"{responsibilityName}\" بميزانية قدرها ${budget}.",
			},
		},
	}
}

// DefaultSMTPSettings returns the placeholder transport config seeded on
// first read. Operators are expected to replace it via the settings API.
func DefaultSMTPSettings() SMTPSettings {
	return SMTPSettings{
		Server: "smtp.example.com",
		Port:   587,
		User:   "noreply@example.com",
		Pass:   "password",
	}
}
