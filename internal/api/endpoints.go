package api

// Backend routes, relative to the base URL.
const (
	pathCheckMe         = "/auth/checkme"
	pathLogin           = "/auth/login"
	pathLogout          = "/auth/logout"
	pathRegister        = "/auth/registration"
	pathRegisterCompany = "/auth/register-company"
	pathForgotPassword  = "/auth/forgot-password"
	pathResetPassword   = "/auth/reset-password/{id}"

	pathJobs           = "/user/getjobs"
	pathSearchJobs     = "/user/fetchsearch"
	pathJobDetails     = "/user/jobsdetails/{id}"
	pathApply          = "/user/addapplication/{id}"
	pathWithdraw       = "/user/withdrawapplication/{id}"
	pathMyApplications = "/user/myapplications"
	pathCompanies      = "/user/companieslist"
	pathCompanyFields  = "/user/company-fields"
	pathGetProfile     = "/user/getuserprofile"
	pathSubmitProfile  = "/user/addprofile"

	pathMyJobs          = "/companyadmin/myjobs"
	pathPostJob         = "/companyadmin/postnewjob"
	pathJobStatus       = "/companyadmin/job/{id}/status"
	pathJobApplications = "/companyadmin/job/{id}/applications"
	pathInterview       = "/companyadmin/application/{id}/interview"
	pathInterviewResult = "/companyadmin/application/{id}/result"

	pathAdminCompanies     = "/superadmin/companies"
	pathAdminCompanyStatus = "/superadmin/company/{id}/status"
	pathAdminUsers         = "/superadmin/users"
	pathAdminUserStatus    = "/superadmin/user/{id}/status"
	pathAdminUserProfile   = "/superadmin/user/{id}/profile"
	pathAdminJobs          = "/superadmin/jobs"
	pathAdminJobStatus     = "/superadmin/job/{id}/status"
)
