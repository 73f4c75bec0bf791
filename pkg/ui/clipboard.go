package ui

import (
	"github.com/atotto/clipboard"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// SystemClipboard copies to the OS clipboard.
var SystemClipboard view.Copier = view.CopierFunc(clipboard.WriteAll)
