// Package ofx reads OFX/QFX bank and credit card statements and turns their
// lines into transaction drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/wallet/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Line is one posted statement entry.
type Line struct {
	FITID     string
	Date      string
	Payee     string
	Memo      string
	Statement string
	Amount    model.Money
	Type      model.TransactionType
}

// Parser reads OFX/QFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of bare tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile returns every posted line of every statement in the file.
// Debits become expenses and credits become income; zero amounts are
// skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Line, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var lines []Line
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			lines = append(lines, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			lines = append(lines, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"lines", len(lines),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return lines, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, statement string) []Line {
	if list == nil {
		return nil
	}
	var lines []Line
	for _, ofxTx := range list.Transactions {
		line, ok := p.convertTransaction(ofxTx, statement)
		if !ok {
			slog.Debug("Skipping zero-amount OFX line", "fitid", string(ofxTx.FiTID))
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, statement string) (Line, bool) {
	amount, err := model.ParseMoney(ofxTx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return Line{}, false
	}

	txType := model.TransactionTypeIncome
	if amount.IsNegative() {
		txType = model.TransactionTypeExpense
		amount = model.Money{Decimal: amount.Neg()}
	}

	return Line{
		FITID:     string(ofxTx.FiTID),
		Date:      ofxTx.DtPosted.Format(model.DateLayout),
		Payee:     p.extractPayee(ofxTx),
		Memo:      strings.TrimSpace(string(ofxTx.Memo)),
		Statement: statement,
		Amount:    amount,
		Type:      txType,
	}, true
}

var payeePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// extractPayee picks the cleanest counterparty name available.
func (p *Parser) extractPayee(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	for _, prefix := range payeePrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Statements lists the statement account numbers found in the file.
func (p *Parser) Statements(ctx context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(string(stmt.CCAcctFrom.AcctID))
		}
	}
	return out, nil
}
