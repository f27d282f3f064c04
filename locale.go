package hndigest

import "strings"

// Locale selects the language of labels, placeholder texts and the
// summary prompt.
type Locale string

const (
	LocaleChinese Locale = "zh"
	LocaleEnglish Locale = "en"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = LocaleChinese

// ParseLocale parses a locale name such as "zh", "zh-CN" or "en-US".
// An empty string yields DefaultLocale.
func ParseLocale(s string) (Locale, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return DefaultLocale, nil
	case s == "zh" || strings.HasPrefix(s, "zh-") || strings.HasPrefix(s, "zh_") || s == "chinese":
		return LocaleChinese, nil
	case s == "en" || strings.HasPrefix(s, "en-") || strings.HasPrefix(s, "en_") || s == "english":
		return LocaleEnglish, nil
	}
	return "", Errorf(EINVALID, "unsupported locale %q", s)
}

// Messages holds the user-facing texts of one locale. Fields ending in
// Format are fmt patterns.
type Messages struct {
	TitleLabel       string
	AuthorLabel      string
	DescriptionLabel string
	Untitled         string

	// SummaryPrompt is the system instruction sent with every article.
	SummaryPrompt string

	ArticleFailedFormat string
	SummaryFailedFormat string
	MissingURL          string

	PDFFailedFormat     string
	PDFFallbackIntro    string
	PDFVisitFormat      string
	PDFHeaderFormat     string
	PDFPageFormat       string
	PDFPageFailedFormat string
}

var messages = map[Locale]Messages{
	LocaleChinese: {
		TitleLabel:       "标题",
		AuthorLabel:      "作者",
		DescriptionLabel: "描述",
		Untitled:         "无标题",

		SummaryPrompt: "你是一个专业的技术文章分析专家。请用中文分析以下HackerNews文章，提供以下信息：" +
			"1. 主要话题和技术领域 2. 创新点或重要发现 3. 与AI相关的关键技术 4. 潜在的应用场景",

		ArticleFailedFormat: "无法获取文章内容：%s",
		SummaryFailedFormat: "无法获取AI分析：%s",
		MissingURL:          "URL不存在",

		PDFFailedFormat:     "无法提取 PDF 内容: %s",
		PDFFallbackIntro:    "以下是论文摘要页的内容：",
		PDFVisitFormat:      "请直接访问原文: %s",
		PDFHeaderFormat:     "PDF 共 %d 页，以下为前 %d 页的内容",
		PDFPageFormat:       "--- 第 %d 页 ---",
		PDFPageFailedFormat: "[第 %d 页提取失败]",
	},
	LocaleEnglish: {
		TitleLabel:       "Title",
		AuthorLabel:      "Author",
		DescriptionLabel: "Description",
		Untitled:         "untitled",

		SummaryPrompt: "You are a professional technical article analysis expert. " +
			"Please analyze the following HackerNews article in English, providing the following information: " +
			"1. Main topic and technical domain 2. Innovation points or important findings " +
			"3. Key AI-related technologies 4. Potential application scenarios",

		ArticleFailedFormat: "Unable to fetch article content: %s",
		SummaryFailedFormat: "Unable to get AI analysis: %s",
		MissingURL:          "URL missing",

		PDFFailedFormat:     "Failed to extract PDF content: %s",
		PDFFallbackIntro:    "Content of the abstract page:",
		PDFVisitFormat:      "Please open the original document: %s",
		PDFHeaderFormat:     "PDF has %d pages, showing the first %d",
		PDFPageFormat:       "--- Page %d ---",
		PDFPageFailedFormat: "[page %d could not be extracted]",
	},
}

// Messages returns the texts for l, falling back to DefaultLocale for
// unknown locales.
func (l Locale) Messages() Messages {
	if m, ok := messages[l]; ok {
		return m
	}
	return messages[DefaultLocale]
}
