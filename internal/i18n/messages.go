package i18n

import "github.com/tutorlink/backend/internal/model"

// Key names one user-facing message in the catalog.
type Key string

const (
	KeyRequestReceivedTitle  Key = "request_received_title"
	KeyRequestReceivedBody   Key = "request_received_body"
	KeyRequestAcceptedTitle  Key = "request_accepted_title"
	KeyRequestAcceptedBody   Key = "request_accepted_body"
	KeyRequestRejectedTitle  Key = "request_rejected_title"
	KeyRequestRejectedBody   Key = "request_rejected_body"
	KeySessionStartedTitle   Key = "session_started_title"
	KeySessionStartedBody    Key = "session_started_body"
	KeySessionEndedTitle     Key = "session_ended_title"
	KeySessionEndedBody      Key = "session_ended_body"
	KeySessionCancelledTitle Key = "session_cancelled_title"
	KeySessionCancelledBody  Key = "session_cancelled_body"
	KeyPointsCreditedTitle   Key = "points_credited_title"
	KeyPointsCreditedBody    Key = "points_credited_body"
)

// Provider resolves message keys for an explicitly supplied locale. There is
// no ambient current-language state anywhere; callers always say whose
// language they want.
type Provider struct {
	catalogs map[model.Locale]map[Key]string
}

func NewProvider() *Provider {
	return &Provider{
		catalogs: map[model.Locale]map[Key]string{
			model.LocaleEnglish: english,
			model.LocaleArabic:  arabic,
		},
	}
}

// Get returns the message for the key in the given locale, falling back to
// English, then to the key itself so a missing entry is visible, not empty.
func (p *Provider) Get(locale model.Locale, key Key) string {
	if catalog, ok := p.catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := p.catalogs[model.LocaleEnglish][key]; ok {
		return msg
	}
	return string(key)
}

var english = map[Key]string{
	KeyRequestReceivedTitle:  "New session request",
	KeyRequestReceivedBody:   "A student sent you a new session request.",
	KeyRequestAcceptedTitle:  "Request accepted",
	KeyRequestAcceptedBody:   "Your session request was accepted.",
	KeyRequestRejectedTitle:  "Request rejected",
	KeyRequestRejectedBody:   "Your session request was rejected.",
	KeySessionStartedTitle:   "Session started",
	KeySessionStartedBody:    "Your session has started.",
	KeySessionEndedTitle:     "Session completed",
	KeySessionEndedBody:      "Your session has been completed.",
	KeySessionCancelledTitle: "Session cancelled",
	KeySessionCancelledBody:  "Your session was cancelled and your points were refunded.",
	KeyPointsCreditedTitle:   "Points added",
	KeyPointsCreditedBody:    "Your points purchase was completed.",
}

var arabic = map[Key]string{
	KeyRequestReceivedTitle:  "طلب جلسة جديد",
	KeyRequestReceivedBody:   "أرسل إليك طالب طلب جلسة جديد.",
	KeyRequestAcceptedTitle:  "تم قبول الطلب",
	KeyRequestAcceptedBody:   "تم قبول طلب الجلسة الخاص بك.",
	KeyRequestRejectedTitle:  "تم رفض الطلب",
	KeyRequestRejectedBody:   "تم رفض طلب الجلسة الخاص بك.",
	KeySessionStartedTitle:   "بدأت الجلسة",
	KeySessionStartedBody:    "بدأت جلستك.",
	KeySessionEndedTitle:     "اكتملت الجلسة",
	KeySessionEndedBody:      "اكتملت جلستك.",
	KeySessionCancelledTitle: "تم إلغاء الجلسة",
	KeySessionCancelledBody:  "تم إلغاء جلستك وإعادة نقاطك.",
	KeyPointsCreditedTitle:   "تمت إضافة النقاط",
	KeyPointsCreditedBody:    "اكتملت عملية شراء النقاط.",
}
