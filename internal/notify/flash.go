package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookie carries a notification across a redirect.
const FlashCookie = "flash"

const flashMaxAge = 60

// FlashNotifier writes the notification into a short-lived cookie so the
// page rendered after a redirect can show it once.
type FlashNotifier struct {
	w http.ResponseWriter
}

// NewFlashNotifier returns a notifier bound to the response being written.
func NewFlashNotifier(w http.ResponseWriter) *FlashNotifier {
	return &FlashNotifier{w: w}
}

func (f *FlashNotifier) Notify(_ context.Context, n Notification) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(f.w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads the pending notification, if any, and clears the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) (Notification, bool) {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil {
		return Notification{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Notification{}, false
	}
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil || n.Message == "" {
		return Notification{}, false
	}
	if n.Kind != KindSuccess && n.Kind != KindError {
		return Notification{}, false
	}
	return n, true
}
