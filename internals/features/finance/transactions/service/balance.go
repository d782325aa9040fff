package service

import (
	"math"
	"sort"
	"time"

	"desaku_backend/internals/features/finance/transactions/model"
	"desaku_backend/internals/helpers/dbtime"
)

// Row adalah proyeksi minimal transaksi untuk perhitungan saldo berjalan.
type Row struct {
	ID      int64
	Date    time.Time
	Type    string
	Amount  int64
	Balance int64
}

// pendingID: id sementara baris baru. bigserial selalu lebih besar dari id yang sudah ada
// di ledger yang sedang dikunci, jadi baris baru berada paling akhir di tanggalnya.
const pendingID = math.MaxInt64

func rowFromModel(t model.FinanceTransactionModel) Row {
	return Row{
		ID:      t.FinanceTransactionID,
		Date:    dbtime.CalendarDay(t.FinanceTransactionDate),
		Type:    t.FinanceTransactionType,
		Amount:  t.FinanceTransactionAmount,
		Balance: t.FinanceTransactionBalance,
	}
}

func Signed(r Row) int64 {
	if r.Type == model.TransactionTypeExpense {
		return -r.Amount
	}
	return r.Amount
}

// Before: urutan ledger (tanggal kalender, lalu id), sama dengan ORDER BY di DB.
func Before(a, b Row) bool {
	dayA, dayB := dbtime.CalendarDay(a.Date), dbtime.CalendarDay(b.Date)
	if !dayA.Equal(dayB) {
		return dayA.Before(dayB)
	}
	return a.ID < b.ID
}

func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return Before(rows[i], rows[j]) })
}

// Position: indeks sisip r ke rows yang sudah terurut.
func Position(rows []Row, r Row) int {
	return sort.Search(len(rows), func(i int) bool { return Before(r, rows[i]) })
}

// BalanceBefore: saldo tepat sebelum indeks pos.
func BalanceBefore(rows []Row, pos int) int64 {
	if pos <= 0 {
		return 0
	}
	return rows[pos-1].Balance
}

// Recompute menulis ulang Balance mulai indeks from dan mengembalikan indeks yang berubah.
func Recompute(rows []Row, from int) []int {
	if from < 0 {
		from = 0
	}
	bal := BalanceBefore(rows, from)
	var changed []int
	for i := from; i < len(rows); i++ {
		bal += Signed(rows[i])
		if rows[i].Balance != bal {
			rows[i].Balance = bal
			changed = append(changed, i)
		}
	}
	return changed
}

// FirstNegative: indeks pertama >= from dengan saldo negatif, -1 bila tidak ada.
func FirstNegative(rows []Row, from int) int {
	for i := from; i < len(rows); i++ {
		if rows[i].Balance < 0 {
			return i
		}
	}
	return -1
}

// Headroom: nominal pengeluaran terbesar yang bisa dicatat di pos tanpa membuat saldo
// pos atau baris setelahnya negatif. rows[pos] diperlakukan bernilai nol.
func Headroom(rows []Row, pos int) int64 {
	bal := BalanceBefore(rows, pos)
	low := bal
	for i := pos + 1; i < len(rows); i++ {
		bal += Signed(rows[i])
		if bal < low {
			low = bal
		}
	}
	return low
}

// Replay menghitung saldo dari nol tanpa mengubah rows.
func Replay(rows []Row) []int64 {
	out := make([]int64, len(rows))
	var bal int64
	for i, r := range rows {
		bal += Signed(r)
		out[i] = bal
	}
	return out
}

// Last: saldo baris terakhir, 0 bila ledger kosong.
func Last(rows []Row) int64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Balance
}
