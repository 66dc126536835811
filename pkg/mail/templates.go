package mail

// Template is an HTML email body with {token} placeholders.
type Template struct {
	Name    string
	Subject string
	Body    string
}

const layoutOpen = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;background:#f4f4f4;padding:24px">` +
	`<div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px">` +
	`<h1 style="color:#d35400;margin-top:0">RiderHub</h1>`

const layoutClose = `<p style="color:#888;font-size:12px;margin-top:32px">RiderHub Motorbike Gear, Nairobi, Kenya</p></div></body></html>`

var (
	VerificationEmail = Template{
		Name:    "verification",
		Subject: "Verify your RiderHub email",
		Body: layoutOpen +
			`<p>Hi {name},</p>` +
			`<p>Use the code below to verify your email address. It expires in 15 minutes.</p>` +
			`<p style="font-size:28px;letter-spacing:6px;font-weight:bold">{verificationCode}</p>` +
			layoutClose,
	}

	PasswordResetRequestEmail = Template{
		Name:    "password_reset_request",
		Subject: "Reset your RiderHub password",
		Body: layoutOpen +
			`<p>Hi {name},</p>` +
			`<p>We received a request to reset your password. The link is valid for one hour.</p>` +
			`<p><a href="{resetLink}" style="background:#d35400;color:#fff;padding:12px 20px;border-radius:4px;text-decoration:none">Reset password</a></p>` +
			`<p>If you did not ask for this, ignore this email.</p>` +
			layoutClose,
	}

	PasswordResetSuccessEmail = Template{
		Name:    "password_reset_success",
		Subject: "Your RiderHub password was changed",
		Body: layoutOpen +
			`<p>Hi {name},</p>` +
			`<p>Your password has been reset. If this was not you, contact support immediately.</p>` +
			layoutClose,
	}

	WelcomeEmail = Template{
		Name:    "welcome",
		Subject: "Welcome to RiderHub",
		Body: layoutOpen +
			`<p>Karibu {name}!</p>` +
			`<p>Your account is ready. Browse helmets, jackets and spares or book a workshop service.</p>` +
			`<p><a href="{dashboardLink}">Open your dashboard</a></p>` +
			layoutClose,
	}

	OrderNotificationEmail = Template{
		Name:    "order_notification",
		Subject: "Update on your RiderHub order #{orderNumber}",
		Body: layoutOpen +
			`<p>Hi {name},</p>` +
			`<p>{notificationContent}</p>` +
			`<p>Order <strong>#{orderNumber}</strong>, total <strong>KES {orderTotal}</strong>.</p>` +
			`<p><a href="{orderLink}">View order</a></p>` +
			layoutClose,
	}
)
