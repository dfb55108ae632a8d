package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"personashop/internal/models"
)

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"subtotal": func(i models.OrderItem) float64 { return i.Price * float64(i.Quantity) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
    <h2 style="color: #333;">Thanks for your order, {{.Username}}!</h2>
    <p>Order <strong>{{.OrderID}}</strong> is {{.Status}}.</p>
    <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
      <thead>
        <tr style="background-color: #f0f0f0;">
          <th style="padding: 10px; text-align: left;">Product</th>
          <th style="padding: 10px; text-align: left;">Quantity</th>
          <th style="padding: 10px; text-align: left;">Unit price</th>
          <th style="padding: 10px; text-align: left;">Total</th>
        </tr>
      </thead>
      <tbody>
      {{- range .Items}}
        <tr>
          <td style="padding: 10px;">{{.Name}}</td>
          <td style="padding: 10px;">{{.Quantity}}</td>
          <td style="padding: 10px;">{{money .Price}}</td>
          <td style="padding: 10px;">{{money (subtotal .)}}</td>
        </tr>
      {{- end}}
      </tbody>
      <tfoot>
        <tr>
          <td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
          <td style="padding: 10px; font-weight: bold;">{{money .Total}}</td>
        </tr>
      </tfoot>
    </table>
    <p style="margin-top: 30px; color: #555;">The PersonaShop team</p>
  </div>
</body>
</html>`))

// Confirmation holds what the order confirmation e-mail shows.
type Confirmation struct {
	Username string
	OrderID  string
	Status   string
	Items    []models.OrderItem
	Total    float64
}

// RenderConfirmation renders the order confirmation e-mail body.
func RenderConfirmation(c Confirmation) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	return buf.String(), nil
}
