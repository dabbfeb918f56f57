package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"skill-swap/config"
	"skill-swap/pkg/db"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// 子表在前，父表在后
var tables = []string{"messages", "reviews", "swap_requests", "skills", "users"}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "config file path")
	assumeYes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg := config.LoadConfigFrom(*configPath)
	driver := cfg.Database.Driver
	if driver == "" {
		driver = "mysql"
	}
	if driver == "sqlite" {
		log.Fatalf("sqlite database: remove the file %q instead", cfg.Database.Database)
	}

	dsn, err := db.BuildDSN(cfg.Database)
	if err != nil {
		log.Fatalf("Build DSN failed: %v", err)
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer conn.Close()

	fmt.Println("Database connected successfully")
	fmt.Printf("Driver: %s, Database: %s\n", driver, cfg.Database.Database)

	if !*assumeYes && !confirm(os.Stdin, os.Stdout) {
		fmt.Println("Operation cancelled")
		return
	}

	if err := resetDatabase(conn, driver, os.Stdout); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}
	fmt.Println("\nDatabase reset completed")
}

// confirm 要求输入 YES 才继续
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "\nWARNING: This operation will CLEAR ALL DATA in tables %v!\n", tables)
	fmt.Fprint(out, "Type 'YES' to confirm: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line) == "YES"
}

// countRows 统计各表当前行数
func countRows(conn *sqlx.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := conn.Get(&n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// resetDatabase 清空全部业务表并重置自增ID
func resetDatabase(conn *sqlx.DB, driver string, out io.Writer) error {
	counts, err := countRows(conn)
	if err != nil {
		return err
	}

	switch driver {
	case "postgres":
		fmt.Fprintf(out, "Truncating %d tables... ", len(tables))
		if _, err := conn.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))); err != nil {
			fmt.Fprintf(out, "Failed: %v\n", err)
			return err
		}
		fmt.Fprintln(out, "Success")
	default:
		// 按子表到父表的顺序删除，无需关闭外键检查
		for _, table := range tables {
			fmt.Fprintf(out, "Clearing table %s... ", table)
			if _, err := conn.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				fmt.Fprintf(out, "Failed: %v\n", err)
				return err
			}
			fmt.Fprintln(out, "Success")
		}

		fmt.Fprintln(out, "\nResetting auto-increment IDs...")
		for _, table := range tables {
			if _, err := conn.Exec(fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", table)); err != nil {
				fmt.Fprintf(out, "Resetting %s auto-increment failed: %v\n", table, err)
			}
		}
	}

	fmt.Fprintln(out, "\nRows removed:")
	for _, table := range tables {
		fmt.Fprintf(out, "  %-14s %d\n", table, counts[table])
	}
	return nil
}
