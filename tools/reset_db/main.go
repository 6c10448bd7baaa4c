package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		Charset  string `yaml:"charset"`
	} `yaml:"database"`
}

func main() {
	config := loadConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		config.Database.Username,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database,
		config.Database.Charset,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Database connection test failed: %v", err)
	}

	fmt.Println("Database connected successfully")
	fmt.Printf("Database: %s\n", config.Database.Database)

	fmt.Print("\nWARNING: This operation will CLEAR ALL DATA in tables [friendship, user]!\n")
	fmt.Print("Type 'YES' to confirm: ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "YES" {
		fmt.Println("Operation cancelled")
		return
	}

	// friendship references user rows, clear it first
	for _, table := range []string{"friendship", "user"} {
		if _, err := db.Exec("DELETE FROM `" + table + "`"); err != nil {
			log.Fatalf("Failed to clear table %s: %v", table, err)
		}
		if _, err := db.Exec("ALTER TABLE `" + table + "` AUTO_INCREMENT = 1"); err != nil {
			log.Printf("Failed to reset auto increment on %s: %v", table, err)
		}
		fmt.Printf("Table %s cleared\n", table)
	}

	fmt.Println("\nDone")
}

func loadConfig() *Config {
	config := &Config{}
	config.Database.Host = "localhost"
	config.Database.Port = 3306
	config.Database.Username = "chat_user"
	config.Database.Password = "chat_pass"
	config.Database.Database = "chat_app"
	config.Database.Charset = "utf8mb4"

	data, err := os.ReadFile("config/config.yaml")
	if err != nil {
		return config
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
	}
	return config
}
