package ledger

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan13ram/dfc-bridge-settler/models"
)

const DefaultPageSize = 10

type Page struct {
	Items []models.TransferRecord
	// Next is the id to pass as cursor for the following page, nil on the last page.
	Next *int64
}

// List pages through transfers by ascending id, starting after cursor.
func (l *Ledger) List(statuses []models.TransferStatus, cursor *int64, size int) (*Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	filter := bson.M{}
	if cursor != nil {
		filter["id"] = bson.M{"$gt": *cursor}
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	records := []models.TransferRecord{}
	err := l.db.FindManySorted(models.CollectionTransfers, filter, bson.D{{Key: "id", Value: 1}}, int64(size+1), &records)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: records}
	if len(records) > size {
		next := records[size-1].Id
		page.Next = &next
		page.Items = records[:size]
	}
	return page, nil
}
