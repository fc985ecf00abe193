package presenter

const (
	ReasonUnknown     = "Une erreur inconnue est survenue."
	ReasonUnspecified = "Raison non spécifiée."
	ReasonPending     = "Paiement en cours de traitement."
)

var failureReasons = map[string]string{
	"1": "Transaction refusée par la banque",
	"2": "Carte expirée",
	"3": "Carte bloquée ou perdue",
	"4": "Fonds insuffisants",
	"5": "Plafond de paiement dépassé",
	"6": "Paiement annulé par le client",
	"7": "Délai de paiement dépassé",
}

// FailureReason resolves a gateway error code to the message shown to the
// member. The success code is treated as no code at all.
func FailureReason(code string) string {
	if code == "" || code == "0" {
		return ReasonUnspecified
	}
	if reason, ok := failureReasons[code]; ok {
		return reason
	}
	return ReasonUnknown
}
