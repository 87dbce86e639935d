// Package storage 提供来源内容的 SQLite 缓存。
// 远端来源抓取失败时，驱动可以回退到最近一次成功的副本。
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/caocaocc/rules/pkg/utils"
)

// CachedSource 一条来源缓存记录
type CachedSource struct {
	URL        string
	Content    []byte
	Checksum   string
	FetchedAt  time.Time
	ErrorCount int
	LastError  string
}

// Store 来源缓存管理器
type Store struct {
	db *sql.DB
}

// Open 打开（必要时创建）缓存数据库
func Open(path string) (*Store, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("创建缓存目录失败: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("打开缓存数据库失败: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("缓存数据库连接测试失败: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化缓存表失败: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sources (
			url         TEXT PRIMARY KEY,
			content     BLOB NOT NULL,
			checksum    TEXT NOT NULL,
			fetched_at  INTEGER NOT NULL,
			error_count INTEGER NOT NULL DEFAULT 0,
			last_error  TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

// Save 写入一次成功抓取的内容，并清零错误计数
func (s *Store) Save(url string, content []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO sources (url, content, checksum, fetched_at, error_count, last_error)
		VALUES (?, ?, ?, ?, 0, '')
		ON CONFLICT(url) DO UPDATE SET
			content     = excluded.content,
			checksum    = excluded.checksum,
			fetched_at  = excluded.fetched_at,
			error_count = 0,
			last_error  = ''
	`, url, content, utils.SHA256Hex(content), time.Now().Unix())
	return err
}

// RecordError 记录一次抓取失败。没有任何成功副本的来源不建记录。
func (s *Store) RecordError(url, msg string) error {
	_, err := s.db.Exec(`
		UPDATE sources SET error_count = error_count + 1, last_error = ?
		WHERE url = ?
	`, msg, url)
	return err
}

// Load 读取一条缓存记录，不存在时返回 nil
func (s *Store) Load(url string) (*CachedSource, error) {
	row := s.db.QueryRow(`
		SELECT url, content, checksum, fetched_at, error_count, last_error
		FROM sources WHERE url = ?
	`, url)

	var cs CachedSource
	var fetchedAt int64
	err := row.Scan(&cs.URL, &cs.Content, &cs.Checksum, &fetchedAt, &cs.ErrorCount, &cs.LastError)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cs.FetchedAt = time.Unix(fetchedAt, 0)
	return &cs, nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}
