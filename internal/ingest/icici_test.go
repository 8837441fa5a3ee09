package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karanversation/terminator/internal/database/repository"
)

func TestICICISavingsParser(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		",DETAILS OF TRANSACTIONS",
		",Account Number - 001101234567",
		"S No.,Value Date,Transaction Date,Cheque Number,Transaction Remarks,Withdrawal Amount (INR ),Deposit Amount (INR ),Balance (INR )",
		"1,14/03/2025,14/03/2025,-,UPI/504912345678/ZOMATO/zomato@icici,459.00,0,12000.50",
		"2,15/03/2025,15/03/2025,-,NEFT-SBIN0001234-SALARY CREDIT,0,\"50,000.00\",62000.50",
		"3,16/03/2025,16/03/2025,-,BALANCE ENQUIRY,0,0,62000.50",
		"4,17/03/2025,17/03/2025,-,REVERSAL ADJUSTMENT,-250.00,0,62250.50",
		"5,18/03/2025,18/03/2025,-,INTEREST CREDIT,-0.01,312.00,62562.50",
		",,,,,,,",
		"Legend,,,,,,,",
	}, "\n")

	got, err := (&ICICISavingsParser{}).Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got[0].OccurredOn)
	require.Equal(t, "UPI/504912345678/ZOMATO/zomato@icici", got[0].RawDescription)
	require.Equal(t, 459.00, got[0].Amount)
	require.Equal(t, repository.Debit, got[0].Direction)
	require.Equal(t, AccountICICISaving, got[0].AccountLabel)
	require.Equal(t, repository.Savings, got[0].AccountClass)

	require.Equal(t, repository.Credit, got[1].Direction)
	require.Equal(t, 50000.00, got[1].Amount)

	// Row 4's negative withdrawal is dropped entirely; row 5's negative
	// withdrawal yields the positive deposit side.
	require.Equal(t, "INTEREST CREDIT", got[2].RawDescription)
	require.Equal(t, repository.Credit, got[2].Direction)
	require.Equal(t, 312.00, got[2].Amount)
}

func TestICICISavingsParserNoTransactions(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		"S No.,Value Date,Transaction Date,Cheque Number,Transaction Remarks,Withdrawal Amount (INR ),Deposit Amount (INR ),Balance (INR )",
		"1,14/03/2025,14/03/2025,-,BALANCE ENQUIRY,0,0,62000.50",
	}, "\n")
	_, err := (&ICICISavingsParser{}).Parse(strings.NewReader(data))
	require.Error(t, err)
}

func TestICICICardParser(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		`"ICICI Bank Credit Card Statement",,,,,,`,
		`"Transaction Details:",,,,,,`,
		`"Date","Sr.No.","Transaction Details","Reward Point Header","Intl.Amount","Amount(in Rs)","BillingAmountSign"`,
		`"4375XXXXXXXX9002",,,,,,`,
		`"14/03/2025","1","AMAZON PAY INDIA GURGAON","12","","1,299.00",""`,
		`"20/03/2025","2","BBPS PAYMENT RECEIVED","0","","5,000.00","CR"`,
		`"21/03/2025","3","","0","","100.00",""`,
		`"22/03/2025","4","CHARGE REVERSAL","0","","-50.00",""`,
	}, "\n")

	got, err := (&ICICICardParser{}).Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "AMAZON PAY INDIA GURGAON", got[0].RawDescription)
	require.Equal(t, 1299.00, got[0].Amount)
	require.Equal(t, repository.Debit, got[0].Direction)
	require.Equal(t, AccountICICICard, got[0].AccountLabel)
	require.Equal(t, repository.CreditCard, got[0].AccountClass)

	require.Equal(t, repository.Credit, got[1].Direction)
	require.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), got[1].OccurredOn)
}

func TestICICICardParserMissingHeader(t *testing.T) {
	t.Parallel()

	_, err := (&ICICICardParser{}).Parse(strings.NewReader("nothing useful here"))
	require.Error(t, err)
}
