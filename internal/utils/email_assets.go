package utils

import "fmt"

// GetLogoHTML returns the email header block
func GetLogoHTML() string {
	return `
		<div style="text-align: center; padding: 40px 20px; background: linear-gradient(135deg, #ffffff 0%, #f8fafc 100%);">
			<h1 style="font-family: 'Segoe UI', -apple-system, BlinkMacSystemFont, Arial, sans-serif; font-size: 32px; font-weight: 700; color: #16a34a; margin: 0 0 8px 0; letter-spacing: -0.5px;">AgroLand</h1>
			<p style="font-family: 'Segoe UI', -apple-system, BlinkMacSystemFont, Arial, sans-serif; font-size: 16px; color: #64748b; margin: 0; font-weight: 500;">Farmland, Found.</p>
		</div>
	`
}

// GetEmailTemplate returns a professional email template
func GetEmailTemplate(title, content, buttonText, buttonURL string) string {
	logoHTML := GetLogoHTML()

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - AgroLand</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', -apple-system, BlinkMacSystemFont, Arial, sans-serif; line-height: 1.6; color: #334155; background-color: #f1f5f9; }
        .email-container { max-width: 600px; margin: 0 auto; background-color: #ffffff; box-shadow: 0 10px 25px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #16a34a 0%%, #15803d 100%%); padding: 0; }
        .content { padding: 40px 30px; }
        .footer { background-color: #f8fafc; padding: 30px; text-align: center; border-top: 1px solid #e2e8f0; }
        .btn { display: inline-block; padding: 16px 32px; background: linear-gradient(135deg, #16a34a 0%%, #15803d 100%%); color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px; margin: 20px 0; box-shadow: 0 4px 12px rgba(22, 163, 74, 0.3); }
        .security-notice { background-color: #fef3c7; border-left: 4px solid #f59e0b; padding: 16px; margin: 20px 0; border-radius: 4px; }
        .divider { height: 1px; background: linear-gradient(90deg, transparent, #e2e8f0, transparent); margin: 30px 0; }
        h2 { color: #1e293b; font-size: 24px; font-weight: 700; margin-bottom: 16px; }
        p { margin-bottom: 16px; font-size: 16px; line-height: 1.7; }
        .highlight { color: #16a34a; font-weight: 600; }
        @media (max-width: 600px) {
            .email-container { margin: 0; box-shadow: none; }
            .content { padding: 30px 20px; }
            .btn { display: block; text-align: center; }
        }
    </style>
</head>
<body>
    <div class="email-container">
        <div class="header">
            %s
        </div>
        <div class="content">
            <h2>%s</h2>
            %s
            %s
        </div>
        <div class="footer">
            <div class="divider"></div>
            <p style="color: #64748b; font-size: 14px; margin-bottom: 16px;">
                This email was sent by AgroLand. If you have any questions, please contact our support team.
            </p>
            <p style="color: #94a3b8; font-size: 12px; margin-top: 20px;">
                &copy; 2026 AgroLand. All rights reserved.
            </p>
        </div>
    </div>
</body>
</html>`, title, logoHTML, title, content,
		func() string {
			if buttonText != "" && buttonURL != "" {
				return fmt.Sprintf(`<div style="text-align: center; margin: 30px 0;"><a href="%s" class="btn">%s</a></div>`, buttonURL, buttonText)
			}
			return ""
		}())
}
