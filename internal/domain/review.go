package domain

import "time"

type Review struct {
	ID            int32     `json:"id"`
	TransactionID int32     `json:"transaction_id"`
	ReviewerID    int32     `json:"reviewer_id"`
	RevieweeID    int32     `json:"reviewee_id"`
	Rating        int32     `json:"rating"` // 1-5
	Comment       string    `json:"comment"`
	CreatedOn     time.Time `json:"created_on"`
}
