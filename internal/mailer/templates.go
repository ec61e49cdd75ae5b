package mailer

const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New Message Received</h2>
  <p>A new message arrived through the contact form.</p>
  <table cellpadding="6">
    <tr><td><strong>Name</strong></td><td>{{.senderName}}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{.senderEmail}}</td></tr>
    <tr><td><strong>Fingerprint</strong></td><td>{{.fingerPrint}}</td></tr>
    <tr><td><strong>Received</strong></td><td>{{.timestamp}}</td></tr>
  </table>
  <h3>Message</h3>
  <p>{{.messageContent}}</p>
</body>
</html>`

const confirmationTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you, {{.senderName}}!</h2>
  <p>Your message was received on {{.timestamp}} and will be answered as
  soon as possible.</p>
  <p>Reference: {{.messageId}}</p>
</body>
</html>`
