package browsertest

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ChatHTML 最小会话界面：消息列表与输入框
const ChatHTML = `<html><body>
<main id="thread"></main>
<textarea data-testid="composer-input" placeholder="Talk to Claude"></textarea>
</body></html>`

// NewChat 创建会话界面页面
func NewChat() *Page {
	return New(ChatHTML)
}

// AddMessage 追加一条消息节点
func AddMessage(doc *goquery.Selection, role, text string) {
	thread := doc.Find("#thread")
	thread.AppendHtml(`<div data-testid="message-` + role + `"></div>`)
	thread.Children().Last().SetText(text)
}

// Respond 模拟流式回复：提交后立即出现用户消息与输入中指示器，
// stream 之后出现回复内容，done 之后指示器消失
func (p *Page) Respond(stream, done time.Duration, reply func(prompt string) string) {
	p.OnSubmit = func(p *Page, prompt string) {
		p.Mutate(func(doc *goquery.Selection) {
			AddMessage(doc, "user", prompt)
			doc.Find("#thread").AppendHtml(`<div data-testid="typing-indicator"></div>`)
		})
		text := reply(prompt)
		p.After(stream, func(doc *goquery.Selection) {
			AddMessage(doc, "assistant", text)
		})
		p.After(done, func(doc *goquery.Selection) {
			doc.Find(`[data-testid="typing-indicator"]`).Remove()
		})
	}
}
