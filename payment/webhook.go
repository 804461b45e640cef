package payment

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

// signedFields is the order Telr hashes its transaction notification fields in.
var signedFields = []string{
	"tran_store", "tran_type", "tran_class", "tran_test", "tran_ref",
	"tran_prevref", "tran_firstref", "tran_order", "tran_currency",
	"tran_amount", "tran_cartid", "tran_desc", "tran_status",
	"tran_authcode", "tran_authmessage",
}

// Signature computes the tran_check value for a notification form.
func Signature(secret string, form url.Values) string {
	parts := []string{secret}
	for _, f := range signedFields {
		parts = append(parts, strings.TrimSpace(form.Get(f)))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks tran_check against the form contents.
func VerifySignature(secret string, form url.Values) bool {
	provided := form.Get("tran_check")
	if provided == "" {
		return false
	}
	return strings.EqualFold(Signature(secret, form), provided)
}

// Approved reports whether the notification is for an authorised payment.
func Approved(form url.Values) bool {
	return form.Get("tran_status") == "A"
}
