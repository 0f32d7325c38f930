package code

import "net/http"

var (
	Success         = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate   = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate   = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete   = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessNoUpdate = NewSuss(5, lang{en: "Nothing to update", zh_cn: "没有需要更新的内容"})
)

var (
	ErrorServerInternal  = NewError(300, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorInvalidParams   = NewError(301, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFoundAPI     = NewError(302, lang{en: "API not found", zh_cn: "接口不存在"}, http.StatusNotFound)
	ErrorTooManyRequests = NewError(303, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorRequestTimeout  = NewError(304, lang{en: "Request timed out", zh_cn: "请求超时"}, http.StatusGatewayTimeout)
	ErrorDBQuery         = NewError(305, lang{en: "Database query failed", zh_cn: "数据库查询失败"})

	ErrorNotUserAuthToken     = NewError(310, lang{en: "Missing auth token", zh_cn: "缺少授权令牌"}, http.StatusUnauthorized)
	ErrorInvalidUserAuthToken = NewError(311, lang{en: "Invalid or expired auth token", zh_cn: "授权令牌无效或已过期"}, http.StatusUnauthorized)
	ErrorTokenGenerate        = NewError(312, lang{en: "Failed to generate token", zh_cn: "令牌生成失败"})
)

// user
var (
	ErrorUserRegister            = NewError(400, lang{en: "Registration failed", zh_cn: "注册失败"})
	ErrorUserAlreadyExists       = NewError(401, lang{en: "Username already exists", zh_cn: "用户名已存在"})
	ErrorUserEmailAlreadyExists  = NewError(402, lang{en: "Email already registered", zh_cn: "邮箱已被注册"})
	ErrorUserNotFound            = NewError(403, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserLoginFailed         = NewError(404, lang{en: "Login failed", zh_cn: "登录失败"})
	ErrorUserLoginPasswordFailed = NewError(405, lang{en: "Wrong account or password", zh_cn: "账号或密码错误"})
	ErrorUserPasswordNotMatch    = NewError(406, lang{en: "Passwords do not match", zh_cn: "两次输入的密码不一致"})
	ErrorUserUsernameNotValid    = NewError(407, lang{en: "Username may only contain letters, digits and underscores", zh_cn: "用户名只能包含字母、数字和下划线"})
	ErrorPasswordNotValid        = NewError(408, lang{en: "Password must be at least 6 characters", zh_cn: "密码至少 6 位"})
	ErrorUserRegisterIsDisable   = NewError(409, lang{en: "Registration is closed", zh_cn: "已关闭注册"})
)

// drive
var (
	ErrorEntryNotFound      = NewError(500, lang{en: "File or folder not found", zh_cn: "文件或文件夹不存在"})
	ErrorInvalidNavigation  = NewError(501, lang{en: "Cannot open this item here", zh_cn: "当前视图不能打开该项目"})
	ErrorInvalidCrumb       = NewError(502, lang{en: "Breadcrumb index out of range", zh_cn: "面包屑位置无效"})
	ErrorInvalidMode        = NewError(503, lang{en: "Unknown view", zh_cn: "未知视图"})
	ErrorSelfShare          = NewError(504, lang{en: "You cannot share with yourself", zh_cn: "不能分享给自己"})
	ErrorDuplicateShare     = NewError(505, lang{en: "Each email can only be added once", zh_cn: "同一邮箱只能添加一次"})
	ErrorInvalidAccess      = NewError(506, lang{en: "Access must be view or edit", zh_cn: "权限只能是查看或编辑"})
	ErrorEntryDetached      = NewError(507, lang{en: "Item is not reachable from My Drive", zh_cn: "该项目无法从我的云端硬盘访问"})
	ErrorDriveCorrupt       = NewError(508, lang{en: "Drive structure is corrupt", zh_cn: "云端硬盘结构已损坏"}, http.StatusInternalServerError)
	ErrorFolderNameRequired = NewError(509, lang{en: "Folder name is required", zh_cn: "文件夹名称不能为空"})
	ErrorNotAFolder         = NewError(510, lang{en: "Only folders support this action", zh_cn: "只有文件夹支持此操作"})
	ErrorInvalidColor       = NewError(511, lang{en: "Unknown folder color", zh_cn: "未知的文件夹颜色"})
	ErrorDriveBusy          = NewError(512, lang{en: "Drive is busy, try again", zh_cn: "云端硬盘繁忙，请稍后再试"})
)
