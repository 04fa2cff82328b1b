package repository

import (
	"context"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.ChatConfigRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListChatConfigs(ctx context.Context) ([]config.ChatConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT chat_id, gitlab_token, project_id
		 FROM chat_configs ORDER BY chat_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []config.ChatConfig
	for rows.Next() {
		var c config.ChatConfig
		if err := rows.Scan(&c.ChatID, &c.GitLabToken, &c.ProjectID); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
