package domain

import "time"

type RenewStatus string

const (
	RenewStatusRequest  RenewStatus = "REQUEST"
	RenewStatusApproved RenewStatus = "APPROVED"
	RenewStatusRejected RenewStatus = "REJECTED"
)

// Renew is a borrower's request to extend a transaction's due date. At most
// one REQUEST renew exists per transaction at a time; approval extends the
// due date by one loan period and never touches book quantity.
type Renew struct {
	ID            int32       `json:"id"`
	TransactionID int32       `json:"transaction_id"`
	Status        RenewStatus `json:"status"`
	RequestedOn   time.Time   `json:"requested_on"`
	DecidedOn     *time.Time  `json:"decided_on,omitempty"`
}
