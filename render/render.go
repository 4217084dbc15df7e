// Package render builds the two texts generated for every order: the delivery
// ticket handed to the courier and the confirmation sent to the customer.
//
// Both functions are pure. The monetary value is always displayed exactly as
// the caller formatted it (Fields.ValueFormatted), never reformatted here.
package render

import (
	"net/url"
	"strings"
)

const (
	notInformed   = "Não informado"
	separator     = "-------------------------------"
	wazeURL       = "https://waze.com/ul?q="
	storeContact  = "31-98255 7807"
	deliveryETA   = "O tempo da entrega aproximado de 30 minutos, podendo chegar antes."
	closingThanks = "Canoas gás agradece sua confiança e preferência."
)

// Fields is the data both templates are rendered from
type Fields struct {
	ClientName     string
	Phone          string
	Address        string
	Channel        string
	Product        string
	Info           string
	DeliveryPerson string
	PaymentMethod  string
	ValueFormatted string
}

// DeliveryMessage renders the internal ticket for the courier.
// The info line is only present when Info is non-empty.
func DeliveryMessage(f Fields) string {
	var b strings.Builder
	b.WriteString("ORDEM DE ENTREGA\n")
	b.WriteString("🛵 Entregador: " + deliveryPerson(f) + "\n")
	b.WriteString(separator + "\n")
	b.WriteString("👤 Cliente: " + f.ClientName + "\n")
	b.WriteString("🛒 Canal: " + f.Channel + "\n")
	b.WriteString("📞 Tel: " + f.Phone + "\n")
	b.WriteString("🚚 Endereço: " + f.Address + "\n")
	b.WriteString("📦 Produto: " + f.Product + "\n")
	if f.Info != "" {
		b.WriteString("📝 Info: " + f.Info + "\n")
	}
	b.WriteString("💳 Pagamento: " + f.PaymentMethod + "\n")
	b.WriteString("💵 Valor: R$ " + f.ValueFormatted + "\n")
	b.WriteString(separator + "\n")
	b.WriteString("📍 Waze: " + WazeLink(f.Address))
	return b.String()
}

// ClientMessage renders the confirmation sent to the customer.
// Info is courier-only and never appears here.
func ClientMessage(f Fields) string {
	var b strings.Builder
	b.WriteString("Olá, " + f.ClientName + "! 👋\n\n")
	b.WriteString("Seu pedido via " + f.Channel + " está a caminho!\n\n")
	b.WriteString("🛵 Entregador: " + deliveryPerson(f) + "\n")
	b.WriteString("👤 Cliente: " + f.ClientName + "\n")
	b.WriteString("📞 Tel: " + f.Phone + "\n")
	b.WriteString("🚚 Endereço: " + f.Address + "\n")
	b.WriteString("📦 Produto: " + f.Product + "\n")
	b.WriteString("💳 Pagamento: " + f.PaymentMethod + "\n")
	b.WriteString("💵 Valor: R$ " + f.ValueFormatted + "\n\n")
	b.WriteString("Contato da revenda: " + storeContact + "\n")
	b.WriteString(separator + "\n\n")
	b.WriteString(deliveryETA + "\n\n")
	b.WriteString(closingThanks)
	return b.String()
}

// WazeLink returns the navigation link for an address
func WazeLink(address string) string {
	return wazeURL + encodeURIComponent(address)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way browsers do for a single URI component:
// spaces become %20 and the marks !'()* are left as they are.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func deliveryPerson(f Fields) string {
	if strings.TrimSpace(f.DeliveryPerson) == "" {
		return notInformed
	}
	return f.DeliveryPerson
}
