package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/campuscard/card_backend/internal/models"
)

func TestLogTransactionDeductsBalance(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)
	createStudent(t, db, "S1", models.StatusActive, 100)

	w := doRequest(t, r, http.MethodPost, "/log_transaction", `{"uid":"S1","amount":50}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var student models.Student
	db.Where("uid = ?", "S1").First(&student)
	if student.Balance != 50 {
		t.Errorf("expected balance 50, got %d", student.Balance)
	}

	var txs []models.TransactionLog
	db.Find(&txs)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction row, got %d", len(txs))
	}
	if txs[0].UID != "S1" || txs[0].Amount != 50 {
		t.Errorf("unexpected transaction row: %+v", txs[0])
	}
}

func TestLogTransactionInactiveCard(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	for _, status := range []string{models.StatusBlocked, models.StatusUnregistered} {
		uid := "S-" + status
		createStudent(t, db, uid, status, 100)

		w := doRequest(t, r, http.MethodPost, "/log_transaction", fmt.Sprintf(`{"uid":%q,"amount":50}`, uid))
		if w.Code != http.StatusForbidden {
			t.Errorf("status %s: expected 403, got %d", status, w.Code)
		}

		var student models.Student
		db.Where("uid = ?", uid).First(&student)
		if student.Balance != 100 {
			t.Errorf("status %s: balance changed on denied transaction: %d", status, student.Balance)
		}
	}

	var count int64
	db.Model(&models.TransactionLog{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no ledger rows, got %d", count)
	}
}

func TestLogTransactionUnknownUID(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	w := doRequest(t, r, http.MethodPost, "/log_transaction", `{"uid":"nope","amount":50}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLogTransactionMissingAmount(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)
	createStudent(t, db, "S1", models.StatusActive, 100)

	w := doRequest(t, r, http.MethodPost, "/log_transaction", `{"uid":"S1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecentTransactionsOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		row := models.TransactionLog{
			UID:       "S1",
			Amount:    int64(i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}

	w := doRequest(t, r, http.MethodGet, "/recent_transactions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	txs := decodeList(t, w)
	if len(txs) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(txs))
	}
	if txs[0]["amount"].(float64) != 11 {
		t.Errorf("expected newest row first, got amount %v", txs[0]["amount"])
	}
	if txs[9]["amount"].(float64) != 2 {
		t.Errorf("expected oldest of the window last, got amount %v", txs[9]["amount"])
	}
}

func TestResetClearsLedgerAndAnomaliesOnly(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)
	createStudent(t, db, "S1", models.StatusActive, 100)

	db.Create(&models.TransactionLog{UID: "S1", Amount: 10, Timestamp: time.Now().UTC()})
	db.Create(&models.Anomaly{Type: "System", Source: "Sensor", Severity: models.SeverityHigh, Timestamp: time.Now().UTC()})
	db.Create(&models.SystemLog{Timestamp: time.Now().UTC()})

	w := doRequest(t, r, http.MethodPost, "/reset_system", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "System reset: 1 transactions, 1 anomalies cleared" {
		t.Errorf("unexpected message: %v", body["message"])
	}

	var txCount, anomalyCount, studentCount, logCount int64
	db.Model(&models.TransactionLog{}).Count(&txCount)
	db.Model(&models.Anomaly{}).Count(&anomalyCount)
	db.Model(&models.Student{}).Count(&studentCount)
	db.Model(&models.SystemLog{}).Count(&logCount)

	if txCount != 0 || anomalyCount != 0 {
		t.Errorf("reset left tx=%d anomalies=%d", txCount, anomalyCount)
	}
	if studentCount != 1 {
		t.Errorf("reset touched students: %d", studentCount)
	}
	if logCount != 1 {
		t.Errorf("reset touched system logs: %d", logCount)
	}

	recent := doRequest(t, r, http.MethodGet, "/recent_transactions", "")
	if rows := decodeList(t, recent); len(rows) != 0 {
		t.Errorf("expected empty recent transactions, got %d", len(rows))
	}
	anomalies := doRequest(t, r, http.MethodGet, "/anomalies", "")
	if rows := decodeList(t, anomalies); len(rows) != 0 {
		t.Errorf("expected empty anomalies, got %d", len(rows))
	}
}
