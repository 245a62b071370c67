// Package ofx imports OFX and QFX bank statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportTag marks every transaction created from a statement.
const ImportTag = "ofx"

// idNamespace seeds the deterministic ids derived from FITIDs.
var idNamespace = uuid.MustParse("5b0d7c5e-5f2e-4b6a-9a57-0c1f3f7d2a10")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Account identifies one statement in a file.
type Account struct {
	ID         string
	CreditCard bool
}

// Statement is the parsed content of an OFX file.
type Statement struct {
	Accounts     []Account
	Transactions []*model.Transaction
}

// Parser implements OFX/QFX file parsing.
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

	// Some SGML exports drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX/QFX file.
//
// Credits become income and debits become expenses; the stored amount is
// always the magnitude. Ids are derived from the account and FITID, so
// importing the same statement twice yields the same ids.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		account := Account{ID: string(bank.BankAcctFrom.AcctID)}
		stmt.Accounts = append(stmt.Accounts, account)
		stmt.Transactions = append(stmt.Transactions, p.convertList(ctx, bank.BankTranList, account)...)
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		account := Account{ID: string(card.CCAcctFrom.AcctID), CreditCard: true}
		stmt.Accounts = append(stmt.Accounts, account)
		stmt.Transactions = append(stmt.Transactions, p.convertList(ctx, card.BankTranList, account)...)
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(stmt.Transactions),
		"accounts", len(stmt.Accounts))

	return stmt, nil
}

func (p *Parser) convertList(ctx context.Context, list *ofxgo.TransactionList, account Account) []*model.Transaction {
	if list == nil {
		return nil
	}

	txns := make([]*model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		if ctx.Err() != nil {
			return txns
		}
		txn, ok := p.convertTransaction(ofxTx, account)
		if !ok {
			slog.Debug("Skipping OFX transaction without amount", "fitid", ofxTx.FiTID)
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

// convertTransaction converts an OFX transaction to our model.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, account Account) (*model.Transaction, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(2))
	if err != nil || amount.IsZero() {
		return nil, false
	}

	kind := model.KindIncome
	if amount.IsNegative() {
		kind = model.KindExpense
	}

	payment := model.PaymentBank
	if account.CreditCard {
		payment = model.PaymentCredit
	}

	posted := ofxTx.DtPosted.Time
	tags := []string{ImportTag}
	switch ofxTx.TrnType {
	case ofxgo.TrnTypeInt:
		tags = append(tags, "interest")
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		tags = append(tags, "fee")
	case ofxgo.TrnTypeATM:
		tags = append(tags, "atm")
	case ofxgo.TrnTypeCheck:
		tags = append(tags, "check")
	}

	return &model.Transaction{
		ID:            StableID(account.ID, string(ofxTx.FiTID)),
		Date:          time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Amount:        amount.Abs(),
		Kind:          kind,
		PaymentMethod: payment,
		Note:          p.extractMerchantName(ofxTx),
		Tags:          tags,
	}, true
}

// StableID derives a transaction id from an account and FITID.
func StableID(accountID, fitID string) string {
	return uuid.NewSHA1(idNamespace, []byte(accountID+"|"+fitID)).String()
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
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
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
