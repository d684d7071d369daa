// Command tread-bot оценивает износ протектора шин по фото: Telegram-бот
// и пакетная обработка файлов из командной строки.
package main

func main() {
	Execute()
}
