package domain

// TextSplitter breaks a long text into chunks small enough to embed.
type TextSplitter interface {
	SplitText(text string) ([]string, error)
}
