package utils

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"

	"aurastore_back_end/internal/models"
)

// SendOrderConfirmationEmail envoie la confirmation de commande.
// Best-effort : un échec est loggé, jamais remonté au checkout.
func SendOrderConfirmationEmail(to string, order models.Order) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@aurastore.app"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de commande %s", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, OrderConfirmationHTML(order))

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de la confirmation de commande à", to)
	return client.DialAndSend(msg)
}

// OrderConfirmationHTML génère le HTML de confirmation avec le tableau
// des lignes et un QR de suivi.
func OrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, line := range order.Lines {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%s€</td>
				<td>%s€</td>
			</tr>`, line.ProductName, line.Quantity,
			line.UnitPrice.StringFixed(2), line.Subtotal().StringFixed(2))
	}

	qr, err := TrackingQR(order.ID)
	qrHTML := ""
	if err == nil {
		qrHTML = fmt.Sprintf(`<p>Suivez votre commande :</p><img src="%s" alt="QR de suivi" />`, qr)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
	<h1>Merci pour votre commande !</h1>
	<p>Commande <strong>%s</strong> — statut : %s</p>
	<p>Adresse de livraison : %s</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Produit</th><th>Qté</th><th>Prix unitaire</th><th>Sous-total</th></tr>
		%s
	</table>
	<h2>Total : %s€</h2>
	%s
</body>
</html>`, order.ID, order.Status, order.ShippingAddress, itemsHTML,
		order.TotalAmount.StringFixed(2), qrHTML)
}

// TrackingQR génère le QR du lien de suivi en data-URL base64, prêt
// pour un <img src="...">.
func TrackingQR(orderID string) (string, error) {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/orders/%s", baseURL, orderID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
