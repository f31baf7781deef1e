package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	err := scanner.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Items = []model.ShoppingItem{}
	return &l, nil
}

const listCols = `id, user_id, name, created_at, updated_at`

func (s *ShoppingStore) CreateList(userID int64, name string) (*model.ShoppingList, error) {
	return createList(s.db, userID, name)
}

func createList(q querier, userID int64, name string) (*model.ShoppingList, error) {
	result, err := q.Exec(`INSERT INTO shopping_lists (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return getList(q, id)
}

// GetList returns the list with its items, or nil if it does not exist.
func (s *ShoppingStore) GetList(id int64) (*model.ShoppingList, error) {
	return getList(s.db, id)
}

func getList(q querier, id int64) (*model.ShoppingList, error) {
	row := q.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	items, err := listItems(q, id)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return l, nil
}

// ListLists returns the user's lists, most recently updated first, each
// with its items.
func (s *ShoppingStore) ListLists(userID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM shopping_lists WHERE user_id = ? ORDER BY updated_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	lists := []model.ShoppingList{}
	index := map[int64]int{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		index[l.ID] = len(lists)
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	itemRows, err := s.db.Query(
		`SELECT i.id, i.list_id, i.name, i.quantity, i.unit, i.purchased, i.created_at
		 FROM shopping_items i JOIN shopping_lists l ON l.id = i.list_id
		 WHERE l.user_id = ? ORDER BY i.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if i, ok := index[item.ListID]; ok {
			lists[i].Items = append(lists[i].Items, *item)
		}
	}
	return lists, itemRows.Err()
}

// RenameList returns nil if the list does not exist.
func (s *ShoppingStore) RenameList(id int64, name string) (*model.ShoppingList, error) {
	result, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetList(id)
}

// DeleteList reports whether a list was removed. Items go with it.
func (s *ShoppingStore) DeleteList(id int64) (bool, error) {
	return deleteList(s.db, id)
}

func deleteList(q querier, id int64) (bool, error) {
	result, err := q.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func touchList(q querier, id int64) error {
	if _, err := q.Exec(`UPDATE shopping_lists SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var purchased int
	err := scanner.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Unit, &purchased, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Purchased = purchased != 0
	return &item, nil
}

const itemCols = `id, list_id, name, quantity, unit, purchased, created_at`

func (s *ShoppingStore) ListItems(listID int64) ([]model.ShoppingItem, error) {
	return listItems(s.db, listID)
}

func listItems(q querier, listID int64) ([]model.ShoppingItem, error) {
	rows, err := q.Query(`SELECT `+itemCols+` FROM shopping_items WHERE list_id = ? ORDER BY id ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) CreateItem(listID int64, fields model.ItemFields, purchased bool) (*model.ShoppingItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := insertItem(tx, listID, fields, purchased)
	if err != nil {
		return nil, err
	}
	if err := touchList(tx, listID); err != nil {
		return nil, err
	}
	item, err := getItem(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

func insertItem(q querier, listID int64, fields model.ItemFields, purchased bool) (int64, error) {
	result, err := q.Exec(
		`INSERT INTO shopping_items (list_id, name, quantity, unit, purchased) VALUES (?, ?, ?, ?, ?)`,
		listID, fields.Name, fields.Quantity, fields.Unit, boolToInt(purchased),
	)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (s *ShoppingStore) GetItem(id int64) (*model.ShoppingItem, error) {
	return getItem(s.db, id)
}

func getItem(q querier, id int64) (*model.ShoppingItem, error) {
	row := q.QueryRow(`SELECT `+itemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// UpdateItem replaces the item's fields and purchased flag. It returns
// nil if the item does not exist.
func (s *ShoppingStore) UpdateItem(id int64, fields model.ItemFields, purchased bool) (*model.ShoppingItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := getItem(tx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	_, err = tx.Exec(
		`UPDATE shopping_items SET name = ?, quantity = ?, unit = ?, purchased = ? WHERE id = ?`,
		fields.Name, fields.Quantity, fields.Unit, boolToInt(purchased), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if err := touchList(tx, existing.ListID); err != nil {
		return nil, err
	}
	item, err := getItem(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

// DeleteItem returns the removed item, or nil if it did not exist.
func (s *ShoppingStore) DeleteItem(id int64) (*model.ShoppingItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := getItem(tx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM shopping_items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if err := touchList(tx, existing.ListID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return existing, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
