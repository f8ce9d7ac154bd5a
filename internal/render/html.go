package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// documentTemplate 把渲染指令展开成独立成页的 HTML，
// 预览与 PDF 导出共用同一份模板。
const documentTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Name}}</title>
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: '{{.FontBody}}', sans-serif;
            color: #111827;
        }
        h1, h2, h3 {
            font-family: '{{.FontHeading}}', sans-serif;
        }
        a { color: {{.PrimaryColor | safeCSSValue}}; }
        nav {
            display: flex;
            gap: 24px;
            padding: 16px 48px;
        }
        nav.centered { justify-content: center; }
        nav.minimal { padding: 8px 48px; font-size: 13px; }
        nav a { text-decoration: none; }
        section { padding: 64px 48px; }
        section.centered { text-align: center; }
        .grid { display: grid; gap: 24px; }
        .cols-1 { grid-template-columns: 1fr; }
        .cols-2 { grid-template-columns: repeat(2, 1fr); }
        .cols-3 { grid-template-columns: repeat(3, 1fr); }
        .entry.ruled { border-left: 3px solid {{.AccentColor | safeCSSValue}}; padding-left: 16px; }
        .date-col { display: grid; grid-template-columns: 1fr 3fr; gap: 16px; }
        .tag {
            display: inline-block;
            padding: 2px 10px;
            border-radius: 9999px;
            font-size: 12px;
            background: {{.AccentColor | safeCSSValue}};
            color: #ffffff;
        }
        .portrait.circle img { border-radius: 9999px; width: 160px; height: 160px; object-fit: cover; }
        .portrait.card img { border-radius: 12px; width: 280px; object-fit: cover; }
        .hero-title { font-size: 42px; margin: 0; }
        .hero-title.xl { font-size: 64px; }
        .mail-button {
            display: inline-block;
            padding: 12px 28px;
            border-radius: 8px;
            background: {{.PrimaryColor | safeCSSValue}};
            color: #ffffff;
            text-decoration: none;
        }
    </style>
</head>
<body>
    <nav class="{{.HeaderLayout}}">
        {{range .Nav}}<a href="{{.Anchor | safeURL}}">{{.Label}}</a>{{end}}
    </nav>
    {{range .Sections}}
    <section id="{{.Anchor}}" style="background-color: {{.Style.Background | safeCSSValue}}; color: {{.Style.Text | safeCSSValue}};"
        {{- if sectionCentered .}} class="centered"{{end}}>
        {{if .Hero}}
            {{with .Hero}}
            {{if .ShowPortrait}}<div class="portrait {{.PortraitShape}}"><img src="{{.PortraitURL | safeURL}}" alt="{{.Name}}"></div>{{end}}
            <h1 class="hero-title{{if .LargeTitle}} xl{{end}}">{{.Name}}</h1>
            <h2>{{.Tagline}}</h2>
            <p>{{.Summary}}</p>
            <div>{{range .Links}}<a href="{{.URL | safeURL}}">{{.Label}}</a> {{end}}</div>
            {{end}}
        {{else if .About}}
            {{with .About}}
            <h2>About</h2>
            <p>{{.Summary}}</p>
            <div>{{range .Skills}}<span class="tag">{{.}}</span> {{end}}</div>
            {{end}}
        {{else if .Experience}}
            {{with .Experience}}
            <h2>Experience</h2>
            <div class="grid cols-{{.Columns}}">
                {{$b := .}}
                {{range .Entries}}
                {{if $b.SeparateDateCol}}
                <div class="date-col">
                    <div>{{.DateRange}}</div>
                    <div>
                        <h3>{{.Role}}</h3>
                        <div>{{.Company}}</div>
                        {{if $b.ShowDescriptions}}<p>{{.Description}}</p>{{end}}
                    </div>
                </div>
                {{else}}
                <div class="entry{{if $b.AccentRule}} ruled{{end}}">
                    <h3>{{.Role}}</h3>
                    <div>{{.Company}} · {{.DateRange}}</div>
                    {{if $b.ShowDescriptions}}<p>{{.Description}}</p>{{end}}
                </div>
                {{end}}
                {{end}}
            </div>
            {{end}}
        {{else if .Projects}}
            {{with .Projects}}
            <h2>Work</h2>
            <div class="grid cols-{{.Columns}}">
                {{$b := .}}
                {{range .Entries}}
                <div class="entry">
                    <h3>{{if .Link}}<a href="{{.Link | safeURL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</h3>
                    {{if $b.ShowDescriptions}}<p>{{.Description}}</p>{{end}}
                    {{if $b.ShowTags}}<div>{{range .Tags}}<span class="tag">{{.}}</span> {{end}}</div>{{end}}
                </div>
                {{end}}
            </div>
            {{end}}
        {{else if .Education}}
            {{with .Education}}
            <h2>Education</h2>
            <div class="grid cols-{{.Columns}}">
                {{range .Entries}}
                <div class="entry">
                    <h3>{{.Institution}}</h3>
                    <div>{{.Degree}}</div>
                    <div>{{.Year}}</div>
                </div>
                {{end}}
            </div>
            {{end}}
        {{else if .Contact}}
            {{with .Contact}}
            <h2>Contact</h2>
            {{if .ShowMailButton}}<a class="mail-button" href="mailto:{{.Email}}">Say Hello</a>{{end}}
            {{if .ShowForm}}
            <form>
                <input type="text" placeholder="Name">
                <input type="email" placeholder="Email">
                <textarea placeholder="Message"></textarea>
                <button type="submit">Send</button>
            </form>
            {{end}}
            <div>{{range .Links}}<a href="{{.URL | safeURL}}">{{.Label}}</a> {{end}}</div>
            {{end}}
        {{end}}
    </section>
    {{end}}
</body>
</html>
`

var colorSafe = func(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '#' || r == '(' || r == ')' || r == ',' || r == '.' || r == ' ' || r == '%' || r == '-':
		default:
			return false
		}
	}
	return true
}

var htmlTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	// Go 模板默认转义会拆掉 style 属性里的值，颜色这类受控输入
	// 先做白名单再标记安全。
	"safeCSSValue": func(s string) template.CSS {
		if !colorSafe(s) {
			return template.CSS("inherit")
		}
		return template.CSS(s)
	},
	"safeURL": func(s string) template.URL {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "javascript:") {
			return template.URL("")
		}
		return template.URL(s)
	},
	"sectionCentered": func(s Section) bool {
		switch {
		case s.Hero != nil:
			return s.Hero.Centered
		case s.About != nil:
			return s.About.Centered
		case s.Contact != nil:
			return s.Contact.Centered
		}
		return false
	},
}).Parse(documentTemplate))

// HTML 把渲染指令展开成完整的 HTML 页面。
func HTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
