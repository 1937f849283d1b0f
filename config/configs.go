package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var DBType string
var DSN string
var Dbname string
var Download string
var MainConfig Config

type Config struct {
	XMLName    xml.Name `xml:"config"`
	MainRouter string   `xml:"MainRouter"`
	DBType     string   `xml:"dbtype"`
	Dbname     string   `xml:"dbname"`
	Host       string   `xml:"host"`
	Port       string   `xml:"port"`
	Username   string   `xml:"user"`
	Password   string   `xml:"password"`
	Download   string   `xml:"download"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		// 无配置文件时使用默认值，便于本地开发和测试
		MainConfig = Config{
			MainRouter: ":8426",
			DBType:     "sqlite",
			Dbname:     "markmap",
			Download:   "./Media",
		}
		applyConfig()
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	applyConfig()
}

func applyConfig() {
	MainRouter = MainConfig.MainRouter
	DBType = MainConfig.DBType
	Dbname = MainConfig.Dbname
	Download = MainConfig.Download

	switch MainConfig.DBType {
	case "mysql":
		DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", MainConfig.Username, MainConfig.Password, MainConfig.Host, MainConfig.Port, MainConfig.Dbname)
	default:
		DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC", MainConfig.Host, MainConfig.Username, MainConfig.Password, MainConfig.Dbname, MainConfig.Port)
	}
}
