package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan13ram/dfc-bridge-settler/app/mocks"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

// serveTransfers answers FindManySorted from records, applying the id cursor,
// status and limit parts of the filter.
func serveTransfers(mockDB *mocks.MockDatabase, records []models.TransferRecord) {
	mockDB.EXPECT().FindManySorted(models.CollectionTransfers, mock.Anything, bson.D{{Key: "id", Value: 1}}, mock.Anything, mock.Anything).
		RunAndReturn(func(collection string, filter interface{}, sort interface{}, limit int64, result interface{}) error {
			query := filter.(bson.M)
			matched := []models.TransferRecord{}
			for _, record := range records {
				if cursor, ok := query["id"]; ok && record.Id <= cursor.(bson.M)["$gt"].(int64) {
					continue
				}
				if statuses, ok := query["status"]; ok {
					found := false
					for _, status := range statuses.(bson.M)["$in"].([]models.TransferStatus) {
						if status == record.Status {
							found = true
						}
					}
					if !found {
						continue
					}
				}
				matched = append(matched, record)
				if limit > 0 && int64(len(matched)) == limit {
					break
				}
			}
			*result.(*[]models.TransferRecord) = matched
			return nil
		})
}

func testRecords(n int) []models.TransferRecord {
	records := []models.TransferRecord{}
	for i := 1; i <= n; i++ {
		status := models.TransferStatusInProgress
		if i%3 == 0 {
			status = models.TransferStatusCompleted
		}
		records = append(records, models.TransferRecord{Id: int64(i), Status: status})
	}
	return records
}

func TestList(t *testing.T) {

	t.Run("Default page size", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)
		serveTransfers(mockDB, testRecords(25))

		page, err := l.List(nil, nil, 0)
		assert.Nil(t, err)
		assert.Len(t, page.Items, DefaultPageSize)
		assert.Equal(t, int64(1), page.Items[0].Id)
		assert.Equal(t, int64(10), *page.Next)
	})

	t.Run("Last page has no cursor", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)
		serveTransfers(mockDB, testRecords(25))

		cursor := int64(20)
		page, err := l.List(nil, &cursor, 10)
		assert.Nil(t, err)
		assert.Len(t, page.Items, 5)
		assert.Nil(t, page.Next)
	})

	t.Run("Exact multiple has no trailing empty page", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)
		serveTransfers(mockDB, testRecords(20))

		cursor := int64(10)
		page, err := l.List(nil, &cursor, 10)
		assert.Nil(t, err)
		assert.Len(t, page.Items, 10)
		assert.Nil(t, page.Next)
	})

	t.Run("Pages partition the filtered set", func(t *testing.T) {
		records := testRecords(47)
		statuses := []models.TransferStatus{models.TransferStatusInProgress}

		for _, size := range []int{1, 3, 10, 16, 100} {
			mockDB := mocks.NewMockDatabase(t)
			l := NewTestLedger(t, mockDB, nil)
			serveTransfers(mockDB, records)

			seen := map[int64]bool{}
			last := int64(0)
			var cursor *int64
			for {
				page, err := l.List(statuses, cursor, size)
				assert.Nil(t, err)
				assert.LessOrEqual(t, len(page.Items), size)
				for _, item := range page.Items {
					assert.False(t, seen[item.Id])
					assert.Greater(t, item.Id, last)
					assert.Equal(t, models.TransferStatusInProgress, item.Status)
					seen[item.Id] = true
					last = item.Id
				}
				if page.Next == nil {
					break
				}
				cursor = page.Next
			}

			expected := 0
			for _, record := range records {
				if record.Status == models.TransferStatusInProgress {
					expected++
				}
			}
			assert.Len(t, seen, expected)
		}
	})
}
