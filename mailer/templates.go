package mailer

import "html/template"

var orderConfirmationTpl = template.Must(template.New("order-confirmation").Parse(`
<h2>Thanks for your order, {{.Name}}!</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> has been received and is being prepared.</p>
<table>
  {{range .Items}}
  <tr><td>{{.Quantity}} &times; {{.Name}}</td><td>{{printf "%.2f" .Price}}</td></tr>
  {{end}}
</table>
<p>Total: <strong>{{.Total}}</strong></p>
<p>&mdash; {{.AppName}}</p>
`))

var otpTpl = template.Must(template.New("otp").Parse(`
<h2>Hi {{.Name}},</h2>
<p>Your {{.AppName}} password reset code is:</p>
<p style="font-size:24px"><strong>{{.OTP}}</strong></p>
<p>The code expires in {{.Minutes}} minutes and can be used once. If you did not
request a reset, you can ignore this email.</p>
`))

var resetTpl = template.Must(template.New("password-reset").Parse(`
<h2>Hi {{.Name}},</h2>
<p>We received a request to reset your {{.AppName}} password.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>The link expires in {{.Minutes}} minutes and can be used once.</p>
`))

var staffInviteTpl = template.Must(template.New("staff-invitation").Parse(`
<h2>Welcome to the {{.AppName}} team, {{.Name}}!</h2>
<p>An account has been created for you:</p>
<p>Email: <strong>{{.Email}}</strong><br>
Temporary password: <strong>{{.Password}}</strong></p>
<p>Sign in at <a href="{{.LoginURL}}">{{.LoginURL}}</a>. You will be asked to
choose a new password on first login.</p>
`))

var marketingTpl = template.Must(template.New("marketing").Parse(`
<div>{{.Content}}</div>
<hr>
<p><small>You are receiving this because you subscribed to the {{.AppName}}
newsletter. <a href="{{.BaseURL}}/newsletter/unsubscribe">Unsubscribe</a></small></p>
`))
