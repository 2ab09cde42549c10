package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-engine/internal/dto"
	"github.com/anyulbade/commission-engine/internal/model"
)

type TransactionRepository struct {
	path string
}

func NewTransactionRepository(path string) *TransactionRepository {
	return &TransactionRepository{path: path}
}

func (r *TransactionRepository) List(ctx context.Context) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read transactions file: %w", err)
	}

	txns, err := DecodeTransactions(data, FormatFromPath(r.path))
	if err != nil {
		return nil, fmt.Errorf("load transactions from %s: %w", r.path, err)
	}

	log.Info().Str("path", r.path).Int("count", len(txns)).Msg("loaded transactions")
	return txns, nil
}

// DecodeTransactions converts transaction documents; documents without an id
// get a generated one.
func DecodeTransactions(data []byte, format Format) ([]model.Transaction, error) {
	docs, err := decodeList[dto.TransactionDocument](data, format, "transactions")
	if err != nil {
		return nil, err
	}

	var validationErrors dto.ValidationErrors
	txns := make([]model.Transaction, 0, len(docs))

	for i, doc := range docs {
		txn, err := doc.ToModel(i)
		if err != nil {
			var ve dto.ValidationErrors
			if errors.As(err, &ve) {
				validationErrors = append(validationErrors, ve...)
				continue
			}
			return nil, err
		}
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		txns = append(txns, txn)
	}

	if len(validationErrors) > 0 {
		return nil, validationErrors
	}
	return txns, nil
}
