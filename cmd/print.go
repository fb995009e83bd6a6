package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/liran-funaro/charfa/fa"
)

var (
	errorStyle    = color.New(color.FgRed, color.Bold)
	symbolStyle   = color.New(color.FgYellow, color.Bold)
	positionStyle = color.New(color.FgBlue)
	valueStyle    = color.New(color.FgGreen)
)

func formatPosition(line, column int) string {
	return positionStyle.Sprintf("%d:%d", line, column)
}

func formatToken(tok fa.Token[string], errorSymbol string) string {
	style := symbolStyle
	if tok.Symbol == errorSymbol {
		style = errorStyle
	}
	return fmt.Sprintf("%s %s %s", formatPosition(tok.Line, tok.Column), style.Sprint(tok.Symbol), valueStyle.Sprint(strconv.Quote(tok.Value)))
}

func formatMatch(m fa.Match) string {
	return fmt.Sprintf("%s %s", formatPosition(m.Line, m.Column), valueStyle.Sprint(strconv.Quote(m.Value)))
}
