package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/canoasgas/pedidos-api/models"
	"gorm.io/gorm"
)

const (
	// MinSearchTermLength is the shortest term SearchClients sends to the database
	MinSearchTermLength = 2
	// MaxSearchResults caps the client search dialog
	MaxSearchResults = 20
)

// ClientDirectory stores one client per unique name
type ClientDirectory struct {
	db *gorm.DB
}

// NewClientDirectory creates a directory backed by db
func NewClientDirectory(db *gorm.DB) *ClientDirectory {
	return &ClientDirectory{db: db}
}

// WithTx returns a copy of the directory that runs on tx
func (d *ClientDirectory) WithTx(tx *gorm.DB) *ClientDirectory {
	return &ClientDirectory{db: tx}
}

// FindByName looks a client up by exact, case-sensitive name
func (d *ClientDirectory) FindByName(ctx context.Context, name string) (*models.Client, error) {
	var client models.Client
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&client).Error; err != nil {
		return nil, wrapDBError("find client", err)
	}
	return &client, nil
}

// Create stores a new client. A duplicate name returns ErrConflict.
func (d *ClientDirectory) Create(ctx context.Context, name, phone, address string) (*models.Client, error) {
	client := models.Client{Name: name, Phone: phone, Address: address}
	if err := d.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, wrapDBError("create client", err)
	}
	return &client, nil
}

// Update overwrites every field of client id
func (d *ClientDirectory) Update(ctx context.Context, id uint, name, phone, address string) (*models.Client, error) {
	db := d.db.WithContext(ctx)

	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		return nil, wrapDBError("update client", err)
	}

	client.Name, client.Phone, client.Address = name, phone, address
	if err := db.Model(&client).Select("name", "phone", "address").Updates(&client).Error; err != nil {
		return nil, wrapDBError("update client", err)
	}
	return &client, nil
}

// Search returns up to MaxSearchResults clients whose name contains term,
// ignoring case, ordered by name. Terms shorter than MinSearchTermLength
// return an empty result without querying.
func (d *ClientDirectory) Search(ctx context.Context, term string) ([]models.Client, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchTermLength {
		return []models.Client{}, nil
	}

	clients := []models.Client{}
	err := d.db.WithContext(ctx).
		Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(term)).
		Order("name ASC").
		Limit(MaxSearchResults).
		Find(&clients).Error
	if err != nil {
		return nil, wrapDBError("search clients", err)
	}
	return clients, nil
}

// ResolveAndSync finds the client named name and overwrites its phone and
// address, or creates it when absent. It runs in a single transaction; a
// concurrent create of the same name surfaces as ErrConflict.
func (d *ClientDirectory) ResolveAndSync(ctx context.Context, name, phone, address string) (*models.Client, error) {
	var resolved *models.Client
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dir := d.WithTx(tx)

		client, err := dir.FindByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			resolved, err = dir.Create(ctx, name, phone, address)
			return err
		}
		if err != nil {
			return err
		}

		client.Phone, client.Address = phone, address
		if err := tx.Model(client).Select("phone", "address").Updates(client).Error; err != nil {
			return wrapDBError("sync client", err)
		}
		resolved = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally. Queries fold
// case with LOWER on both sides so the pattern and the column fold alike.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
