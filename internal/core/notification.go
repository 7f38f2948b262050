package core

import (
	"bytes"
	"fmt"
	"html/template"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
.container { padding: 20px; border: 1px solid #ddd; border-radius: 5px; background-color: #f9f9f9; }
h2 { color: #0056b3; }
p { line-height: 1.6; }
strong { color: #d9534f; }
.footer { font-size: 0.9em; color: #777; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
<h2>会议截止日期提醒</h2>
<p>您好！</p>
<p>这是一个关于会议 <strong>{{.Name}}</strong> ({{.Acronym}}) 的提醒：</p>
<ul>
<li>截止类型：<strong>{{.Type}}</strong></li>
<li>截止日期：<strong>{{.Date}}</strong> (北京时间)</li>
<li>剩余时间：<strong>{{.TimeLeft}}</strong></li>
</ul>
<p>请及时处理相关事宜。</p>
<p class="footer">此邮件由会议截止日期提醒系统自动发送，如需取消订阅请联系管理员。</p>
</div>
</body>
</html>
`))

type reminderView struct {
	Name     string
	Acronym  string
	Type     string
	Date     string
	TimeLeft string
}

// TimeLeftText renders the days remaining before a deadline.
func TimeLeftText(days int) string {
	switch days {
	case 0:
		return "就是今天！"
	case 1:
		return "仅剩 1 天！"
	default:
		return fmt.Sprintf("还有 %d 天。", days)
	}
}

// FormatReminder renders the email for one due reminder
func FormatReminder(r DueReminder) (*OutgoingMail, error) {
	name := r.ConferenceName
	if name == "" {
		name = r.ConferenceAcronym
	}
	title := r.Type.Title()

	var body bytes.Buffer
	err := reminderTemplate.Execute(&body, reminderView{
		Name:     name,
		Acronym:  r.ConferenceAcronym,
		Type:     title,
		Date:     r.Deadline.Format("2006-01-02 15:04"),
		TimeLeft: TimeLeftText(r.DaysRemaining),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render reminder: %w", err)
	}

	return &OutgoingMail{
		To:       r.Email,
		Subject:  fmt.Sprintf("会议提醒: %s - %s 即将截止", name, title),
		HTMLBody: body.String(),
	}, nil
}
