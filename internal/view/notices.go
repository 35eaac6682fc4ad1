package view

import "golang.org/x/net/html"

// Notice text.
const (
	LoginRequiredTitle = "Login Required"
	SignInPath         = "/signin/"
	SignUpPath         = "/signup/"
)

// LoginRequired is shown instead of results when the caller has no session
func LoginRequired() *html.Node {
	signIn := textElement("a", "", "log in")
	setAttr(signIn, "href", SignInPath)
	signUp := textElement("a", "", "create an account")
	setAttr(signUp, "href", SignUpPath)

	return element("div", "results-content",
		element("div", "login-required",
			textElement("h3", "", LoginRequiredTitle),
			element("p", "",
				textNode("You need to "), signIn,
				textNode(" or "), signUp,
				textNode(" to perform searches."),
			),
			textElement("p", "", "You can still view this shared result, but you cannot perform new searches without logging in."),
		),
	)
}

// ErrorNotice is the results region holding only an error message
func ErrorNotice(message string) *html.Node {
	return element("div", "results-content", textElement("div", "error", message))
}
