package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"journalapi/internal/config"
	"journalapi/internal/entity"
	"journalapi/internal/httpx"
	"journalapi/internal/logger"
	"journalapi/internal/platform/crypto"
	"journalapi/internal/record"

	"go.uber.org/zap"
)

type subject struct {
	title string
	info  string
}

var films = []subject{
	{"기생충", "2019 | 봉준호 | 장편 | 드라마"},
	{"헤어질 결심", "2022 | 박찬욱 | 장편 | 멜로/로맨스"},
	{"살인의 추억", "2003 | 봉준호 | 장편 | 범죄"},
	{"버닝", "2018 | 이창동 | 장편 | 미스터리"},
}

var books = []subject{
	{"데미안", "헤르만 헤세 | 민음사 | 2000-12-20"},
	{"소년이 온다", "한강 | 창비 | 2014-05-19"},
	{"채식주의자", "한강 | 창비 | 2007-10-30"},
	{"아몬드", "손원평 | 창비 | 2017-03-31"},
}

// Seeds demo reviews into a fresh browser session on a persistent record
// store and prints the cookie that opens it.
func main() {
	count := flag.Int("count", 20, "Reviews to create per domain")
	months := flag.Int("months", 6, "Spread dates over this many past months")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Store.Backend == "memory" {
		log.Fatal("seeding the memory store is pointless, set RECORD_STORE to disk, redis or postgres")
	}

	ctx := context.Background()
	store, err := record.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal("cannot open record store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer store.Close()

	token, sid, err := crypto.GenerateSessionToken(cfg.Session.Secret)
	if err != nil {
		log.Fatal("cannot mint session", zap.Error(err))
	}

	svc := record.NewService(store.Repo, record.NewIDGenerator(), log)
	today := time.Now()
	for _, d := range entity.Domains {
		pool := films
		if d == entity.DomainBook {
			pool = books
		}
		key := record.NewKey(sid, d)
		for i := 0; i < *count; i++ {
			s := pool[rand.Intn(len(pool))]
			day := entity.DateOf(today.AddDate(0, 0, -rand.Intn(*months*30+1)))
			_, err := svc.Create(ctx, key, entity.Record{
				Title:           fmt.Sprintf("%s 다시 보기 #%d", s.title, i+1),
				Body:            fmt.Sprintf("%s에 대한 메모입니다.", s.title),
				SubjectTitle:    s.title,
				SubjectInfo:     s.info,
				ConsumedOnLabel: day.Label(),
			})
			if err != nil {
				log.Fatal("failed to create review", zap.String("domain", string(d)), zap.Error(err))
			}
		}
		log.Info("seeded", zap.String("domain", string(d)), zap.Int("count", *count))
	}

	fmt.Printf("%s=%s\n", httpx.SessionCookieName, token)
}
