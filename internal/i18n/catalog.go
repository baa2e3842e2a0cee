// Package i18n renders operator-facing text in the configured station
// language using golang.org/x/text message catalogs.
package i18n

// Key identifies a translatable message.
type Key string

const (
	Authorized          Key = "Authorized"
	LoggedOut           Key = "LoggedOut"
	AuthorizedState     Key = "AuthorizedState"
	InvalidState        Key = "InvalidState"
	NoProduct           Key = "NoProduct"
	NecessaryAuth       Key = "NecessaryAuth"
	NoEmployee          Key = "NoEmployee"
	NotBarcode          Key = "NotBarcode"
	UnknownSender       Key = "UnknownSender"
	CompletedBuild      Key = "CompletedBuild"
	UnitOnTable         Key = "UnitOnTable"
	UnitRemoved         Key = "UnitRemoved"
	ImpossibleRemove    Key = "ImpossibleRemove"
	ProductOnDesktop    Key = "ProductOnDesktop"
	NecessaryComponents Key = "NecessaryComponents"
	NotPartOfProduct    Key = "NotPartOfProduct"
	AlreadyAdded        Key = "AlreadyAdded"
	NotCompleted        Key = "NotCompleted"
	AlreadyUsed         Key = "AlreadyUsed"
	AssignedToProduct   Key = "AssignedToProduct"
	Unfinished          Key = "Unfinished"
	NoConnection        Key = "NoConnection"
	ErrorRecording      Key = "ErrorRecording"
	NotSaveVideo        Key = "NotSaveVideo"
	SaveLocalVideo      Key = "SaveLocalVideo"
	ErrorPrintLabel     Key = "ErrorPrintLabel"
	ErrorPrintQR        Key = "ErrorPrintQR"
	ErrorPrintSeal      Key = "ErrorPrintSeal"
	CanceledPassport    Key = "CanceledPassport"
	PassportSaved       Key = "PassportSaved"
	FailedToWrite       Key = "FailedToWrite"
	DataPublished       Key = "DataPublished"
	ShutDownServer      Key = "ShutDownServer"
	FinishServer        Key = "FinishServer"
	HIDConnected        Key = "HIDConnected"
	HIDDisconnected     Key = "HIDDisconnected"
	Sealed              Key = "Sealed"
	UnitNotFound        Key = "UnitNotFound"
	SchemaNotFound      Key = "SchemaNotFound"
	PublishFailed       Key = "PublishFailed"

	PassportProductID           Key = "PassportProductID"
	PassportProductModel        Key = "PassportProductModel"
	PassportBuildTime           Key = "PassportBuildTime"
	PassportStages              Key = "PassportStages"
	PassportStageName           Key = "PassportStageName"
	PassportEmployee            Key = "PassportEmployee"
	PassportStartTime           Key = "PassportStartTime"
	PassportEndTime             Key = "PassportEndTime"
	PassportVideo               Key = "PassportVideo"
	PassportInformation         Key = "PassportInformation"
	PassportComponents          Key = "PassportComponents"
	PassportBuildTimeComponents Key = "PassportBuildTimeComponents"
	PassportSerialNumber        Key = "PassportSerialNumber"
)

// entries holds the English and Russian pattern of every key. Patterns use
// fmt verbs for their arguments.
var entries = map[Key][2]string{
	Authorized:          {"Authorized %s %s", "Авторизован %s %s"},
	LoggedOut:           {"%s logged out", "%s вышел из системы"},
	AuthorizedState:     {"A unit can only be created by an authorized operator with an empty table", "Изделие можно создать только после авторизации при пустом столе"},
	InvalidState:        {"This action is not available right now", "Это действие сейчас недоступно"},
	NoProduct:           {"No unit on the table", "На столе нет изделия"},
	NecessaryAuth:       {"Authorization required", "Необходима авторизация"},
	NoEmployee:          {"Employee not found", "Сотрудник не найден"},
	NotBarcode:          {"Scanned code %s is not a unit barcode", "Код %s не является штрихкодом изделия"},
	UnknownSender:       {"Event from unknown device %s ignored", "Событие от неизвестного устройства %s проигнорировано"},
	CompletedBuild:      {"Unit assembly is already completed", "Сборка изделия уже завершена"},
	UnitOnTable:         {"Unit %s is on the table", "Изделие %s на столе"},
	UnitRemoved:         {"Unit %s removed from the table", "Изделие %s убрано со стола"},
	ImpossibleRemove:    {"Cannot remove the unit", "Невозможно убрать изделие"},
	ProductOnDesktop:    {"This unit is already on the table", "Это изделие уже на столе"},
	NecessaryComponents: {"All components have already been added", "Все компоненты уже добавлены"},
	NotPartOfProduct:    {"Component %s is not part of %s", "Компонент %s не входит в состав %s"},
	AlreadyAdded:        {"Component %s has already been added", "Компонент %s уже добавлен"},
	NotCompleted:        {"Assembly of component %s is not completed", "Сборка компонента %s не завершена"},
	AlreadyUsed:         {"Component %s is already used in %s", "Компонент %s уже использован в %s"},
	AssignedToProduct:   {"Component %s added to %s", "Компонент %s добавлен в %s"},
	Unfinished:          {"(unfinished)", "(не завершено)"},
	NoConnection:        {"Camera is not reachable", "Нет связи с камерой"},
	ErrorRecording:      {"Video recording failed to start", "Не удалось начать запись видео"},
	NotSaveVideo:        {"Video was not saved", "Видео не сохранено"},
	SaveLocalVideo:      {"Video could not be published and is kept locally", "Не удалось опубликовать видео, оно сохранено локально"},
	ErrorPrintLabel:     {"Barcode label printing failed", "Ошибка печати этикетки со штрихкодом"},
	ErrorPrintQR:        {"QR code printing failed", "Ошибка печати QR-кода"},
	ErrorPrintSeal:      {"Seal tag printing failed", "Ошибка печати пломбы"},
	CanceledPassport:    {"Passport upload cancelled: QR label not printed", "Загрузка паспорта отменена: QR-код не напечатан"},
	PassportSaved:       {"Passport of unit %s saved", "Паспорт изделия %s сохранён"},
	FailedToWrite:       {"Failed to write data to the ledger", "Не удалось записать данные в реестр"},
	DataPublished:       {"Data published to the ledger", "Данные опубликованы в реестре"},
	ShutDownServer:      {"Workbench server is shutting down", "Сервер рабочего места завершает работу"},
	FinishServer:        {"Workbench server shutdown complete", "Сервер рабочего места остановлен"},
	HIDConnected:        {"Input device %s connected", "Устройство ввода %s подключено"},
	HIDDisconnected:     {"Input device %s disconnected", "Устройство ввода %s отключено"},
	Sealed:              {"SEALED", "ОПЛОМБИРОВАНО"},
	UnitNotFound:        {"Unit %s not found", "Изделие %s не найдено"},
	SchemaNotFound:      {"Production schema %s not found", "Схема производства %s не найдена"},
	PublishFailed:       {"Publishing gateway is unavailable", "Шлюз публикации недоступен"},

	PassportProductID:           {"Unit ID", "Идентификатор изделия"},
	PassportProductModel:        {"Unit model", "Модель изделия"},
	PassportBuildTime:           {"Build time", "Время сборки"},
	PassportStages:              {"Production stages", "Этапы производства"},
	PassportStageName:           {"Name", "Название"},
	PassportEmployee:            {"Employee", "Сотрудник"},
	PassportStartTime:           {"Start time", "Время начала"},
	PassportEndTime:             {"End time", "Время окончания"},
	PassportVideo:               {"Build video", "Видео сборки"},
	PassportInformation:         {"Additional information", "Дополнительная информация"},
	PassportComponents:          {"Components", "Компоненты"},
	PassportBuildTimeComponents: {"Build time including components", "Время сборки с учётом компонентов"},
	PassportSerialNumber:        {"Serial number", "Серийный номер"},
}
